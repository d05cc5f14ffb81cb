package errors

import (
	stderrors "errors"
	"testing"
)

// TestNewError 测试基本错误构造
func TestNewError(t *testing.T) {
	err := NewError(ErrCodeNotFound, "记录不存在")
	if err == nil {
		t.Fatal("构造的错误为nil")
	}
	if err.Code() != ErrCodeNotFound {
		t.Errorf("错误码不匹配: %s", err.Code())
	}
	if err.Message() != "记录不存在" {
		t.Errorf("消息不匹配: %s", err.Message())
	}
	if err.Stack() == "" {
		t.Error("应捕获调用栈")
	}
}

// TestWrapError 测试错误包装与解包
func TestWrapError(t *testing.T) {
	cause := stderrors.New("连接超时")
	wrapped := WrapError(cause, ErrCodeDatabase, "查询失败")

	if wrapped == nil {
		t.Fatal("包装后的错误为nil")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is 应能匹配原始错误")
	}
	if wrapped.Cause() != cause {
		t.Error("Cause 应返回原始错误")
	}
}

// TestWrapError_Nil 包装nil错误应返回nil
func TestWrapError_Nil(t *testing.T) {
	if WrapError(nil, ErrCodeInternal, "消息") != nil {
		t.Error("包装nil错误应该返回nil")
	}
}

// TestIs_CodeComparison 同码错误通过 errors.Is 匹配
func TestIs_CodeComparison(t *testing.T) {
	a := NewError(ErrCodeConfiguration, "排序键未知")
	b := NewError(ErrCodeConfiguration, "另一条配置错误")
	if !stderrors.Is(a, b) {
		t.Error("同码错误应匹配")
	}
	c := NewError(ErrCodeNotFound, "x")
	if stderrors.Is(a, c) {
		t.Error("不同码错误不应匹配")
	}
}

func TestCodePredicates(t *testing.T) {
	if !IsConfiguration(NewError(ErrCodeConfiguration, "x")) {
		t.Error("IsConfiguration 应为true")
	}
	if !IsNotFound(NewError(ErrCodeNotFound, "x")) {
		t.Error("IsNotFound 应为true")
	}
	if !IsValidation(NewError(ErrCodeValidation, "x")) {
		t.Error("IsValidation 应为true")
	}
	if IsConfiguration(stderrors.New("普通错误")) {
		t.Error("非AppError不应匹配")
	}
	if IsConfiguration(nil) {
		t.Error("nil不应匹配")
	}
}

// TestIsErrorCode_Wrapped 包装链上的错误码仍可识别
func TestIsErrorCode_Wrapped(t *testing.T) {
	inner := NewError(ErrCodeConfiguration, "排序键未知")
	outer := WrapError(inner, ErrCodeDatabase, "查询失败")

	if !IsErrorCode(outer, ErrCodeDatabase) {
		t.Error("外层错误码应匹配")
	}
	// IsErrorCode 只看最外层；内层错误码通过 errors.Is 沿包装链匹配
	if !stderrors.Is(outer, inner) {
		t.Error("内层错误应沿包装链匹配")
	}
	if GetErrorCode(outer) != ErrCodeDatabase {
		t.Error("GetErrorCode 应返回最外层错误码")
	}
}

func TestWithDetails(t *testing.T) {
	err := NewError(ErrCodeValidation, "字段非法").
		WithDetails(map[string]any{"field": "name"}).
		WithContext("entity_id", int64(5))

	details := err.Details()
	if details["field"] != "name" {
		t.Errorf("details 丢失: %v", details)
	}
	if details["entity_id"] != int64(5) {
		t.Errorf("context 丢失: %v", details)
	}
}
