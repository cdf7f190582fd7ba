package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wfunc/game-portal/internal/catalog"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/importer"
	"github.com/wfunc/game-portal/internal/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径")
		gamesDir   = flag.String("dir", "", "本地游戏目录 (默认 <site.public_dir>/games)")
		dryRun     = flag.Bool("dry-run", false, "只列出将要导入的游戏，不写入目录")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if *gamesDir == "" {
		*gamesDir = filepath.Join(cfg.Site.PublicDir, "games")
	}

	err = run(cfg, importer.Options{
		GamesDir:    *gamesDir,
		Placeholder: cfg.Site.Placeholder,
		DryRun:      *dryRun,
	})
	logger.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, opts importer.Options) error {
	log := logger.WithModule("import")

	store, err := catalog.Open(&cfg.Storage)
	if err != nil {
		log.Error("打开目录存储失败", zap.Error(err))
		return err
	}
	defer store.Close()

	result, err := importer.New(store, log).Run(context.Background(), opts)
	if result != nil {
		for _, g := range result.Added {
			fmt.Println("Added:", g.Slug)
		}
	}
	if err != nil {
		log.Error("导入失败", zap.String("dir", opts.GamesDir), zap.Error(err))
		return err
	}
	fmt.Println("Done.")
	return nil
}
