package handlers

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber error handler shared by all routes. Missing
// records map to 404, ownership violations to 403, an empty cart to 400 and
// store failures to a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, services.ErrNotFound):
		code = fiber.StatusNotFound
		message = "Not found"
	case errors.Is(err, services.ErrUnauthorized):
		code = fiber.StatusForbidden
		message = "You are not allowed to access this resource"
	case errors.Is(err, services.ErrEmptyCart):
		code = fiber.StatusBadRequest
		message = "Your cart is empty"
	case errors.Is(err, services.ErrInvalidCredentials):
		code = fiber.StatusUnauthorized
		message = "Authentication failed"
	case errors.Is(err, services.ErrUserExists):
		code = fiber.StatusConflict
		message = "Registration failed"
	}

	log.Printf("%s %s failed with %d: %v", c.Method(), c.Path(), code, err)

	body := fiber.Map{"message": message}
	if code != fiber.StatusInternalServerError {
		body["error"] = err.Error()
	}
	return c.Status(code).JSON(body)
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return user, nil
}

func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
