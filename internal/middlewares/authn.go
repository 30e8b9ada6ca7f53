package middlewares

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/model"
)

const (
	localsCurrentUser = "currentUser"
	localsBearerToken = "bearerToken"
)

type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*model.User, error)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(ctx *fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the identity behind the bearer access token and
// stores it for the following handlers.
func Authenticate(resolver IdentityResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, ok := BearerToken(ctx)
		if !ok {
			return auth.ErrInvalidCredentials
		}
		user, err := resolver.ResolveIdentity(ctx.UserContext(), token)
		if err != nil {
			return err
		}
		ctx.Locals(localsCurrentUser, user)
		ctx.Locals(localsBearerToken, token)
		return ctx.Next()
	}
}

// CurrentUser returns the identity set by Authenticate, or nil.
func CurrentUser(ctx *fiber.Ctx) *model.User {
	user, _ := ctx.Locals(localsCurrentUser).(*model.User)
	return user
}

// CurrentToken returns the access token the current identity was resolved from.
func CurrentToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(localsBearerToken).(string)
	return token
}
