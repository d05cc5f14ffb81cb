package domain

import "fmt"

// RepositoryError 通用仓储错误
type RepositoryError struct {
	Code     string
	Message  string
	EntityID any
	Cause    error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// Is 按错误码比较，使 errors.Is 可以匹配哨兵实例
func (e *RepositoryError) Is(target error) bool {
	if t, ok := target.(*RepositoryError); ok {
		return e.Code == t.Code
	}
	return false
}

// 常见仓储/实体错误哨兵（用于 errors.Is 比较）
var (
	ErrEntityNotFound      = &RepositoryError{Code: "ENTITY_NOT_FOUND", Message: "entity not found"}
	ErrEntityAlreadyExists = &RepositoryError{Code: "ENTITY_ALREADY_EXISTS", Message: "entity already exists"}
	ErrInvalidID           = &RepositoryError{Code: "INVALID_ID", Message: "invalid entity id"}
	ErrAlreadyDeleted      = &RepositoryError{Code: "ALREADY_DELETED", Message: "entity already soft-deleted"}
	ErrNotDeleted          = &RepositoryError{Code: "NOT_DELETED", Message: "entity is not soft-deleted"}
	ErrRepositoryFailed    = &RepositoryError{Code: "REPOSITORY_FAILED", Message: "repository operation failed"}
)

// NewAlreadyDeletedError 创建重复软删错误
func NewAlreadyDeletedError(id int64) *RepositoryError {
	return &RepositoryError{
		Code:     "ALREADY_DELETED",
		Message:  fmt.Sprintf("entity %d already soft-deleted", id),
		EntityID: id,
	}
}

// NewNotDeletedError 创建“未删除却要求恢复”错误
func NewNotDeletedError(id int64) *RepositoryError {
	return &RepositoryError{
		Code:     "NOT_DELETED",
		Message:  fmt.Sprintf("entity %d is not soft-deleted", id),
		EntityID: id,
	}
}

// NewNotFoundError 创建未找到错误（便于示例与 mocks 使用）
func NewNotFoundError(format string, args ...any) *RepositoryError {
	return &RepositoryError{
		Code:    "ENTITY_NOT_FOUND",
		Message: fmt.Sprintf(format, args...),
	}
}
