package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/apperrors"
)

var validate = validator.New()

// parseAndValidate decodes the JSON body into dst and runs struct
// validation, translating failures into the 400 branch of the error
// taxonomy.
func parseAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.Validation("body", "unable to parse request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.Validation(fe.Field(), "failed validation on "+fe.Tag())
		}
		return apperrors.Validation("body", err.Error())
	}
	return nil
}

func GetActor(c *fiber.Ctx) string {
	if actor, ok := c.Locals("actor").(string); ok && actor != "" {
		return actor
	}
	return "admin"
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("id", "must be a positive integer")
	}
	return int64(id), nil
}
