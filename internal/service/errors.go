package service

import (
	"errors"
	"fmt"
)

// 哨兵错误：对外统一语义，隐藏底层实现细节。
// 具体错误通过 %w 包装所属的类别，Handler 只需按类别映射状态码。
var (
	// ErrNotFound 资源不存在，或属于其他租户（两者对调用方不可区分）
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden 资源可见但不允许操作
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState 违反问卷状态机
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidInput 请求参数不合法，在写入之前拒绝
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated 调用方身份缺失或已失效
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInternal 内部错误（对外不暴露细节）
	ErrInternal = errors.New("internal server error")
)

var (
	ErrTemplateNotFound = fmt.Errorf("%w: survey template", ErrNotFound)
	ErrInstanceNotFound = fmt.Errorf("%w: survey instance", ErrNotFound)
	ErrGroupNotFound    = fmt.Errorf("%w: stakeholder group", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)

	ErrTemplateNotOwned = fmt.Errorf("%w: template belongs to another company", ErrForbidden)
	ErrInstanceNotOwned = fmt.Errorf("%w: instance belongs to another user", ErrForbidden)

	ErrTemplateInactive  = fmt.Errorf("%w: template is inactive", ErrInvalidState)
	ErrInstanceSubmitted = fmt.Errorf("%w: instance already submitted", ErrInvalidState)

	ErrAccountDisabled = fmt.Errorf("%w: user or company disabled", ErrUnauthenticated)
)
