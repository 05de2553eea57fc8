// Package errors 业务错误分类。
//
// 每个业务错误携带分类（Kind）与对外错误码，Handler 层据此统一映射 HTTP 状态，
// 业务层仍以包级哨兵变量 + errors.Is 的方式判断具体错误。
package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind 错误分类
type Kind int

const (
	KindInternal   Kind = iota
	KindValidation      // 缺少必填项、取值非法
	KindDuplicate       // 唯一约束冲突
	KindNotFound        // 引用的实体不存在
	KindForbidden       // 角色不具备该能力
	KindConflict        // 状态不允许该操作（存在依赖、工单已关闭）
)

// pgUniqueViolation PostgreSQL 唯一约束冲突错误码
const pgUniqueViolation = "23505"

// Error 业务错误
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 创建业务错误
func New(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// As 提取错误链中的业务错误
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf 返回错误分类，非业务错误归为 KindInternal
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// IsUniqueViolation 判断是否为唯一约束冲突
// 同时兼容 gorm TranslateError 与驱动原始错误
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNotFound 判断是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
