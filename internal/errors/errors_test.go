package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	err = New(ErrNotFound, "游戏不存在")
	suite.Equal(ErrNotFound, err.Code)
	suite.Equal("资源未找到", err.Message)
	suite.Equal("游戏不存在", err.Details)

	// 多个详情
	err = New(ErrStorageWrite, "写入失败", "文件: games.json")
	suite.Equal("写入失败; 文件: games.json", err.Details)
}

func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrDuplicateSlug, "slug %q 已存在", "space-race")
	suite.Equal(ErrDuplicateSlug, err.Code)
	suite.Equal(`slug "space-race" 已存在`, err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	originalErr := errors.New("原始错误")
	wrappedErr := Wrap(originalErr, ErrStorageRead)
	suite.Equal(ErrStorageRead, wrappedErr.Code)
	suite.Equal("原始错误", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	suite.Nil(Wrap(nil, ErrUnknown))

	// 包装已有的AppError，保留原始错误码
	appErr := New(ErrNotFound, "游戏不存在")
	wrappedAppErr := Wrap(appErr, ErrInvalidParam, "额外信息")
	suite.Equal(ErrNotFound, wrappedAppErr.Code)
	suite.Contains(wrappedAppErr.Details, "额外信息")
}

func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("unexpected end of JSON input")
	wrappedErr := Wrapf(originalErr, ErrCatalogCorrupt, "解析 %s 失败", "games.json")
	suite.Equal(ErrCatalogCorrupt, wrappedErr.Code)
	suite.Equal("解析 games.json 失败", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
}

func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrDuplicateSlug)
	suite.True(Is(err, ErrDuplicateSlug))
	suite.False(Is(err, ErrNotFound))
	suite.False(Is(nil, ErrDuplicateSlug))
	suite.False(Is(errors.New("标准错误"), ErrUnknown))

	// fmt包装后仍可识别
	suite.True(Is(fmt.Errorf("handler: %w", err), ErrDuplicateSlug))
}

func (suite *ErrorsTestSuite) TestGetCode() {
	suite.Equal(ErrSessionExpired, GetCode(New(ErrSessionExpired)))
	suite.Equal(ErrUnknown, GetCode(errors.New("标准错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{
		Code:    ErrNotFound,
		Message: "资源未找到",
	}
	suite.Equal("[1002] 资源未找到", err.Error())

	err.Details = "slug: missing"
	suite.Equal("[1002] 资源未找到: slug: missing", err.Error())
}

func (suite *ErrorsTestSuite) TestUnwrap() {
	originalErr := errors.New("原始错误")
	suite.Equal(originalErr, Wrap(originalErr, ErrUnknown).Unwrap())
	suite.Nil(New(ErrUnknown).Unwrap())
}

func (suite *ErrorsTestSuite) TestWithCause() {
	cause := errors.New("disk full")
	err := New(ErrStorageWrite).WithCause(cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("disk full", err.Details)

	err2 := New(ErrStorageWrite, "写入失败").WithCause(cause)
	suite.Equal("写入失败", err2.Details)
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicateSlug, http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrAuthentication, http.StatusUnauthorized},
		{ErrSessionInvalid, http.StatusUnauthorized},
		{ErrDatabaseConnect, http.StatusServiceUnavailable},
		{ErrStorageWrite, http.StatusInternalServerError},
		{ErrUnknown, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		suite.Equal(tc.expected, New(tc.code).HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}

	suite.Equal(http.StatusInternalServerError, StatusOf(errors.New("boom")))
	suite.Equal(http.StatusNotFound, StatusOf(fmt.Errorf("wrap: %w", New(ErrNotFound))))
}

func (suite *ErrorsTestSuite) TestIsCritical() {
	suite.True(IsCritical(New(ErrCatalogCorrupt)))
	suite.True(IsCritical(New(ErrStorageWrite)))
	suite.False(IsCritical(New(ErrDuplicateSlug)))
	suite.False(IsCritical(nil))
}

func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.NotEmpty(err.Stack)
	suite.NotEmpty(err.GetStack())
}

func (suite *ErrorsTestSuite) TestErrorResponse() {
	err := New(ErrNotFound, "游戏不存在")
	response := NewErrorResponse(err, "req-123")

	suite.False(response.Success)
	suite.Equal(err, response.Error)
	suite.Equal("req-123", response.RequestID)
	suite.Greater(response.Timestamp, int64(0))
}

func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("未知错误", err.Message)
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("ctx: %w", New(ErrInvalidGameType, "type: flash")))
	if !ok || appErr.Details != "type: flash" {
		t.Fatalf("unexpected %v %v", appErr, ok)
	}
	_, ok = As(errors.New("plain"))
	if ok {
		t.Fatal("plain error should not match")
	}
}
