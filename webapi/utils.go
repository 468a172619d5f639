package webapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ErrorResponseJSON writes a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title, detail string) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	return c.Status(status).JSON(pd, "application/problem+json")
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, account.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, account.ErrAmountMustBePositive):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrWrongAccountType),
		errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, account.ErrChargeLimitExceeded),
		errors.Is(err, account.ErrDepositFailed):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainErrorJSON maps err to a status code and writes the problem response.
func DomainErrorJSON(c *fiber.Ctx, title string, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), title, err.Error())
}

var validate = validator.New()

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure it writes the error response and
// returns a nil struct.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}

// HeaderUserID is the header the upstream gateway sets after authenticating
// the caller. Authentication itself is outside this service.
const HeaderUserID = "X-User-ID"

// currentUserID extracts the acting user from the request headers.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Get(HeaderUserID)
	if raw == "" {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusUnauthorized, "Missing user identity", "set the "+HeaderUserID+" header")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusUnauthorized, "Invalid user identity", err.Error())
	}
	return id, nil
}

// pathAccountID parses the :id path parameter.
func pathAccountID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", "account ID must be a valid UUID")
	}
	return id, nil
}
