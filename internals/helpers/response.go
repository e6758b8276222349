package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Response index (GET /) → {status:{code,message}, data:null}
func StatusIndex(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": fiber.Map{
			"code":    fiber.StatusOK,
			"message": message,
		},
		"data": nil,
	})
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	return validationErrors(c, "Validasi gagal", ve)
}

func validationErrors(c *fiber.Ctx, message string, ve validator.ValidationErrors) error {
	errorsMap := make(map[string][]string, len(ve))
	for _, fieldErr := range ve {
		errorsMap[fieldErr.Field()] = append(errorsMap[fieldErr.Field()], fieldErr.Tag())
	}

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: statusToErrorCode(fiber.StatusBadRequest),
		Errors:    errorsMap,
	})
}
