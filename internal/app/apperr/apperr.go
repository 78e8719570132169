package apperr

import "errors"

// Kind классифицирует бизнес-ошибку для маппинга в HTTP статус
type Kind int

const (
	KindUnknown Kind = iota
	KindForbidden
	KindInvalidState
	KindValidation
	KindNotFound
)

// Error — бизнес-ошибка с видом и сообщением для клиента
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func InvalidState(msg string) error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// KindOf возвращает вид ошибки (KindUnknown для не-бизнес ошибок)
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
