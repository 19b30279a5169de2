package pkg

import "fmt"

// AppError is the error envelope returned by HTTP handlers.
//
// Code is a stable machine-readable identifier, Message is safe to show to
// clients, and Err keeps the underlying cause for logs.
type AppError struct {
	Code       string
	Message    string
	Err        error
	HTTPStatus int
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy whose message carries the underlying cause.
// Used by admin tooling where internal detail is acceptable.
func (e *AppError) WithDetails() *AppError {
	if e.Err == nil {
		return e
	}
	cp := *e
	cp.Message = e.Err.Error()
	return &cp
}

// ToHTTPError renders the JSON body: {"error": message, "code": code}.
func (e *AppError) ToHTTPError() map[string]any {
	return map[string]any{
		"error": e.Message,
		"code":  e.Code,
	}
}
