package er

import (
	"errors"
	"fmt"
)

type Code int

const (
	BadRequestCode      Code = 400
	UnauthenticatedCode Code = 401
	UnauthorizedCode    Code = 403
	NotFoundCode        Code = 404
	ConflictCode        Code = 409
	UnprocessableCode   Code = 422
	InvalidArgumentCode Code = 460
	InternalErrorCode   Code = 500
	BadGatewayCode      Code = 502
)

var ErrStrMap = map[Code]string{
	BadRequestCode:      "bad request",
	UnauthenticatedCode: "unauthenticated",
	UnauthorizedCode:    "unauthorized",
	NotFoundCode:        "not found",
	ConflictCode:        "conflict",
	UnprocessableCode:   "unprocessable",
	InvalidArgumentCode: "invalid argument",
	InternalErrorCode:   "internal server error",
	BadGatewayCode:      "bad gateway",
}

// CodeError 帶有錯誤碼的error, handler依照Code決定http status
type CodeError struct {
	Code Code
	Err  error
}

func (e *CodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrStrMap[e.Code]
}

func (e *CodeError) Unwrap() error {
	return e.Err
}

func New(code Code, msg string) *CodeError {
	return &CodeError{Code: code, Err: errors.New(msg)}
}

func Wrap(code Code, err error) *CodeError {
	return &CodeError{Code: code, Err: err}
}

func Wrapf(code Code, format string, args ...any) *CodeError {
	return &CodeError{Code: code, Err: fmt.Errorf(format, args...)}
}

// GetCode 取出錯誤碼, 非CodeError一律視為internal error
func GetCode(err error) Code {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalErrorCode
}
