package cookiejar

import (
	"errors"
	"fmt"
)

// StatusError carrega o status HTTP de um erro retornado pelo HandlerFunc.
type StatusError struct {
	Code    int
	Message string
	err     error
}

func (e StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e StatusError) Unwrap() error {
	return e.err
}

// Error cria um erro com status definido pelo usuário.
func Error(code int, message string) StatusError {
	return StatusError{Code: code, Message: message}
}

// Errorf é como fmt.Errorf, inclusive com %w.
func Errorf(code int, format string, a ...any) StatusError {
	err := fmt.Errorf(format, a...)
	return StatusError{
		Code:    code,
		Message: err.Error(),
		err:     errors.Unwrap(err),
	}
}
