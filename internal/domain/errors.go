package domain

import "errors"

type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION"
	KindStateConflict ErrorKind = "STATE_CONFLICT"
	KindAuthorization ErrorKind = "AUTHORIZATION"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindQualification ErrorKind = "QUALIFICATION"
)

// Error 是业务层返回给调用方的错误，Details 用于携带调用方自行修正所需的信息
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is 只比较错误种类，使得 errors.Is(err, ErrStateConflict) 之类的判断成立
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation    = &Error{Kind: KindValidation, Message: "参数错误"}
	ErrStateConflict = &Error{Kind: KindStateConflict, Message: "状态冲突"}
	ErrAuthorization = &Error{Kind: KindAuthorization, Message: "权限不足"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "资源不存在"}
	ErrQualification = &Error{Kind: KindQualification, Message: "员工不具备该岗位资格"}
)

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewStateConflictError(msg string, details any) *Error {
	return &Error{Kind: KindStateConflict, Message: msg, Details: details}
}

func NewAuthorizationError(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewQualificationError(msg string, details any) *Error {
	return &Error{Kind: KindQualification, Message: msg, Details: details}
}
