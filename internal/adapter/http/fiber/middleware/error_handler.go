package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/domain"
)

// ErrorHandler maps domain errors to HTTP status codes so handlers can
// return service errors untouched.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusForError(err)

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func statusForError(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	var (
		notFound        *domain.NotFoundError
		alreadyReserved *domain.CarAlreadyReservedError
		badTransition   *domain.InvalidTransitionError
		needsApproval   *domain.ApprovalRequiredError
		needsPayment    *domain.PaymentRequiredError
		noCancel        *domain.CancellationNotAllowedError
		noRecord        *domain.MaintenanceNotFoundError
	)

	switch {
	case errors.As(err, &notFound), errors.As(err, &noRecord):
		return fiber.StatusNotFound
	case errors.As(err, &alreadyReserved):
		return fiber.StatusConflict
	case errors.As(err, &badTransition), errors.As(err, &noCancel):
		return fiber.StatusConflict
	case errors.As(err, &needsApproval), errors.As(err, &needsPayment):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
