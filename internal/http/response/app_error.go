package response

import "fmt"

// AppError 带业务码的错误，message 为本地化后的文案
type AppError struct {
	Code    int
	Message string
	Cause   error
}

// NewAppError 创建业务错误
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// WithCause 附加原始错误
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}
