package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON parses the body into req and runs struct validation.
func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return nil
}
