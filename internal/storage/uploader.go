// Package storage 缩略图上传的存放位置
package storage

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wfunc/game-portal/internal/config"
	"github.com/wfunc/game-portal/internal/errors"
	"github.com/wfunc/game-portal/internal/logger"
	"go.uber.org/zap"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

// Uploader 把上传文件写入 bucket，返回可直接放进 thumbnail 字段的路径
type Uploader struct {
	bucket    *blob.Bucket
	urlPrefix string
	driver    string
}

// Open 按 uploads.driver 打开 bucket
func Open(ctx context.Context, cfg config.UploadsConfig) (*Uploader, error) {
	var (
		bucket *blob.Bucket
		err    error
	)

	switch cfg.Driver {
	case "", "file":
		var dir string
		dir, err = filepath.Abs(cfg.Dir)
		if err == nil {
			err = os.MkdirAll(dir, 0o755)
		}
		if err == nil {
			bucket, err = fileblob.OpenBucket(dir, nil)
		}
	case "s3":
		bucket, err = blob.OpenBucket(ctx, s3URL(cfg))
	default:
		return nil, errors.Newf(errors.ErrConfigValidate, "unknown uploads driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUploadFailed, "打开上传目录 (%s)", cfg.Driver)
	}

	return NewUploader(bucket, cfg.URLPrefix, cfg.Driver), nil
}

// NewUploader 包装已打开的 bucket
func NewUploader(bucket *blob.Bucket, urlPrefix, driver string) *Uploader {
	if driver == "" {
		driver = "file"
	}
	return &Uploader{
		bucket:    bucket,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		driver:    driver,
	}
}

func s3URL(cfg config.UploadsConfig) string {
	u := url.URL{Scheme: "s3", Host: cfg.Bucket}
	q := url.Values{}
	if cfg.Region != "" {
		q.Set("region", cfg.Region)
	}
	if cfg.Endpoint != "" {
		q.Set("endpoint", cfg.Endpoint)
		q.Set("s3ForcePathStyle", "true")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Key 新文件名：随机 uuid 加上原文件扩展名
func Key(originalName string) string {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(originalName)))
	// 扩展名只保留字母数字
	for _, r := range strings.TrimPrefix(ext, ".") {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			ext = ""
			break
		}
	}
	return uuid.NewString() + ext
}

// Save 写入文件，返回公开路径
func (u *Uploader) Save(ctx context.Context, originalName string, r io.Reader, contentType string) (string, error) {
	start := time.Now()
	key := Key(originalName)

	w, err := u.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrUploadFailed, "创建上传文件失败")
	}
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, errors.ErrUploadFailed, "写入上传文件失败")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, errors.ErrUploadFailed, "保存上传文件失败")
	}

	logger.WithModule("storage").Info("thumbnail stored",
		zap.String("key", key),
		zap.String("driver", u.driver),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return u.PublicPath(key), nil
}

// Delete 删除由 Save 写入的文件，路径不属于本 bucket 时忽略
func (u *Uploader) Delete(ctx context.Context, publicPath string) error {
	key, ok := u.KeyOf(publicPath)
	if !ok {
		return nil
	}
	err := u.bucket.Delete(ctx, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrUploadFailed, "删除上传文件失败")
	}
	return nil
}

// PublicPath 上传文件对外的访问路径
func (u *Uploader) PublicPath(key string) string {
	return u.urlPrefix + "/" + key
}

// KeyOf 从公开路径反解出 key
func (u *Uploader) KeyOf(publicPath string) (string, bool) {
	key, ok := strings.CutPrefix(publicPath, u.urlPrefix+"/")
	if !ok || key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// Exists 检查 key 是否存在
func (u *Uploader) Exists(ctx context.Context, key string) (bool, error) {
	return u.bucket.Exists(ctx, key)
}

// Close 关闭 bucket
func (u *Uploader) Close() error {
	return u.bucket.Close()
}
