package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindNoVariance
	KindExternal
)

// AppError adalah error domain yang membawa status HTTP-nya sendiri.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	switch {
	case e.Err == nil:
		return e.Message
	case e.Message == "":
		return e.Err.Error()
	default:
		return e.Message + ": " + e.Err.Error()
	}
}

func (e *AppError) Unwrap() error { return e.Err }

// WithCause menempelkan error asal (mis. validator.ValidationErrors).
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	case KindNoVariance:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Kind: KindValidation, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func NewNoVarianceError(msg string) *AppError {
	return &AppError{Kind: KindNoVariance, Message: msg}
}

// NewExternalError: kegagalan DB / OSS / model; pesan asli ikut diteruskan ke client.
func NewExternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindExternal, Message: msg, Err: err}
}

func kindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

func IsValidation(err error) bool { return kindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return kindOf(err) == KindNotFound }
func IsNoVariance(err error) bool { return kindOf(err) == KindNoVariance }
func IsExternal(err error) bool   { return kindOf(err) == KindExternal }

// FromAppError mengubah error dari service jadi response JSON konsisten.
// *AppError & *fiber.Error pakai kode masing-masing; selain itu 500.
func FromAppError(c *fiber.Ctx, err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		var ve validator.ValidationErrors
		if ae.Kind == KindValidation && errors.As(ae.Err, &ve) {
			return validationErrors(c, ae.Message, ve)
		}
		msg := ae.Message
		if ae.Kind == KindExternal {
			msg = ae.Error()
		}
		return JsonError(c, ae.Status(), msg)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// ErrorHandler dipasang di fiber.Config; penangkap terakhir semua error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *AppError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae), errors.As(err, &fe):
		return FromAppError(c, err)
	default:
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Msg("[HTTP] unhandled error")
		return JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}
