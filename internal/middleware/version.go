package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/realty-admin/internal/types"
)

// APIVersion is the current JSON API version
const APIVersion = "1.0.0"

// versionAliases maps accepted X-Api-Version values to a full version
var versionAliases = map[string]string{
	"1":     APIVersion,
	"1.0":   APIVersion,
	"1.0.0": APIVersion,
}

// VersionMiddleware parses the X-Api-Version header, rejects versions it
// does not serve and stores the resolved version in context
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", APIVersion)

		version, ok := versionAliases[requested]
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: fmt.Sprintf("Unsupported API version %q", requested),
				Type:    "version",
			}
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
