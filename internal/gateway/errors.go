package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку обращения к серверу.
type Kind int

const (
	// KindTransport: ответ не получен (сеть, таймаут или отмена).
	KindTransport Kind = iota
	// KindUnauthorized: сессия недействительна (401).
	KindUnauthorized
	// KindForbidden: роль не допускает операцию (403).
	KindForbidden
	// KindNotFound: запись не найдена (404).
	KindNotFound
	// KindValidation: сервер отклонил входные данные (прочие 4xx).
	KindValidation
	// KindServer: ошибка сервера (5xx).
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	}
	return "unknown"
}

var (
	// ErrUnauthorized сопоставляется с любым ответом 401 через errors.Is.
	ErrUnauthorized = errors.New("session invalid")
	// ErrForbidden сопоставляется с любым ответом 403 через errors.Is.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound сопоставляется с любым ответом 404 через errors.Is.
	ErrNotFound = errors.New("not found")
)

// Error описывает ошибку шлюза с человекочитаемым сообщением.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибку с ErrUnauthorized, ErrForbidden и ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrForbidden:
		return e.Kind == KindForbidden
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// StatusOf возвращает HTTP-статус ошибки шлюза или 0.
func StatusOf(err error) int {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Status
	}
	return 0
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	}
	return KindValidation
}
