package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"

	blog "github.com/goliatone/go-blog"
)

// errorHandler recovers every taxonomy failure at the request boundary and
// translates it into the fixed response shape. Exactly one response and one
// log line per failure; nothing here is fatal to the process.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		s.logger.Warn("request failed", "status", fiberErr.Code, "error", fiberErr.Message)
		return c.Status(fiberErr.Code).JSON(errorBody(fiberErr.Message, "", ""))
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "internal server error")
	}

	status := statusForCategory(richErr.Category)

	detail := ""
	if s.debug {
		detail = err.Error()
	}

	s.logger.Warn("request failed",
		"status", status,
		"category", string(richErr.Category),
		"text_code", richErr.TextCode,
		"error", err,
	)

	message := richErr.Message
	if status == fiber.StatusInternalServerError && !s.debug {
		// never leak store/driver detail
		message = "internal server error"
	}

	return c.Status(status).JSON(errorBody(message, richErr.TextCode, detail))
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorBody(message, textCode, detail string) fiber.Map {
	body := fiber.Map{"message": message}
	if textCode != "" {
		body["text_code"] = textCode
	}
	if detail != "" {
		body["detail"] = detail
	}
	return fiber.Map{"error": body}
}

func dataBody(data any) fiber.Map {
	return fiber.Map{"data": data}
}

// notFound maps record-not-found store errors onto the taxonomy so list
// and show endpoints return 404 instead of 500
func notFound(err error, what string) error {
	if errors.IsNotFound(err) || repository.IsRecordNotFound(err) {
		return errors.New(what+" not found", errors.CategoryNotFound).
			WithCode(errors.CodeNotFound)
	}
	return blog.WrapPersistence(err, "failed to load "+what)
}
