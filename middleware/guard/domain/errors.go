package domain

import (
	"errors"
	"net/http"
)

// Kind classifica a falha de validação.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingField
	KindInvalidEnum
	KindInvalidDimensions
	KindContentRejected
	KindFileTooLarge
	KindInvalidFileType
	// KindRateLimited não é produzido pela validação: a cota devolve uma
	// Decision. Existe para quem precisa mapear a negação via HTTPStatus.
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "MissingField"
	case KindInvalidEnum:
		return "InvalidEnum"
	case KindInvalidDimensions:
		return "InvalidDimensions"
	case KindContentRejected:
		return "ContentRejected"
	case KindFileTooLarge:
		return "FileTooLarge"
	case KindInvalidFileType:
		return "InvalidFileType"
	case KindRateLimited:
		return "RateLimited"
	default:
		return "Unknown"
	}
}

// Error é a falha de validação devolvida ao cliente.
// Message é segura para exibir: nomeia o campo e o limite, nunca o conteúdo rejeitado.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Kind.String() + " (" + e.Field + "): " + e.Message
	}
	return e.Kind.String() + ": " + e.Message
}

// HTTPStatus mapeia o Kind para o status da resposta.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindMissingField, KindInvalidEnum, KindInvalidDimensions,
		KindContentRejected, KindInvalidFileType:
		return http.StatusBadRequest
	case KindFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Message: msg}
}

const ContentRejectedMessage = "Invalid content detected. Please remove any scripts or special characters."

func MissingField(field string) *Error {
	return newError(KindMissingField, field, "Missing required field: "+field)
}

func InvalidEnum(field, msg string) *Error { return newError(KindInvalidEnum, field, msg) }

func InvalidDimensions(field, msg string) *Error {
	return newError(KindInvalidDimensions, field, msg)
}

func ContentRejected(field string) *Error {
	return newError(KindContentRejected, field, ContentRejectedMessage)
}

func FileTooLarge() *Error {
	return newError(KindFileTooLarge, "file", "File size too large. Maximum size is 5MB.")
}

func InvalidFileType(msg string) *Error { return newError(KindInvalidFileType, "file", msg) }

// KindOf extrai o Kind de err (KindUnknown se não for *Error).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
