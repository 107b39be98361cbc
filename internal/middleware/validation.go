package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/dealheat/dealheat-go/internal/model"
)

// UserIDHeader carries the caller identity, set by the authentication layer
// in front of this service. The engine trusts it.
const UserIDHeader = "X-User-ID"

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ParseDealID checks that a deal ID path segment is a positive integer.
func ParseDealID(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "dealId is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, "dealId must be a positive integer"
	}
	return id, ""
}

// ParseUserID checks that a user ID (path segment or header) is a positive
// integer.
func ParseUserID(raw string) (int64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "userId is required"
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, "userId must be a positive integer"
	}
	return id, ""
}

// CallerID extracts and validates the caller identity header.
func CallerID(c fiber.Ctx) (int64, string) {
	raw := c.Get(UserIDHeader)
	if strings.TrimSpace(raw) == "" {
		return 0, UserIDHeader + " header is required"
	}
	return ParseUserID(raw)
}

// ValidateDirection checks the vote direction value.
func ValidateDirection(raw model.Direction) (model.Direction, string) {
	dir := model.Direction(strings.ToLower(strings.TrimSpace(string(raw))))
	if dir == "" {
		return "", "direction is required"
	}
	if !dir.Valid() {
		return "", "direction must be \"hot\" or \"cold\""
	}
	return dir, ""
}
