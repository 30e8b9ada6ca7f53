package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/auth"
)

// RequireRoles rejects the request unless the current identity passes guard.
// It must run after Authenticate.
func RequireRoles(guard auth.Guard) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := guard.Check(CurrentUser(ctx)); err != nil {
			return err
		}
		return ctx.Next()
	}
}
