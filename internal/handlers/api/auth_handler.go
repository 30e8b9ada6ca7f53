package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/audit"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/internal/events"
	"github.com/khanghh/photoshare/internal/middlewares"
	"github.com/khanghh/photoshare/internal/users"
)

type AuthHandler struct {
	authService AuthService
	userService UserService
	recorder    AuditRecorder
	publisher   events.Publisher
}

type signupRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
	Sex      string `json:"sex"      form:"sex"`
}

// loginRequest accepts the OAuth2 password form, where username carries the email.
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) PostSignup(ctx *fiber.Ctx) error {
	var req signupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	user, err := h.userService.CreateUser(ctx.UserContext(), users.CreateUserOptions{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Sex:      req.Sex,
	})
	if err != nil {
		return err
	}
	publishEvent(ctx.UserContext(), h.publisher, events.Event{
		Type:       events.EventUserRegistered,
		UserID:     user.ID,
		Attributes: map[string]string{"role": user.Role.String()},
	})
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(newUserInfoResponse(user)))
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	email := req.Email
	if email == "" {
		email = req.Username
	}
	email = users.NormalizeEmail(email)

	pair, user, err := h.authService.Login(ctx.UserContext(), email, req.Password)
	record := audit.LoginRecord{Email: email, Success: err == nil, Client: clientInfo(ctx)}
	if user != nil {
		record.UserID = user.ID
	}
	if err != nil {
		if errors.Is(err, auth.ErrInvalidEmail) || errors.Is(err, auth.ErrInvalidPassword) || errors.Is(err, auth.ErrBanned) {
			record.Reason = err.Error()
			h.recorder.RecordLogin(ctx.UserContext(), record)
		}
		return err
	}
	h.recorder.RecordLogin(ctx.UserContext(), record)
	publishEvent(ctx.UserContext(), h.publisher, events.Event{Type: events.EventUserLoggedIn, UserID: user.ID})
	return ctx.JSON(pair)
}

// PostLogout revokes the access token the request was authenticated with.
func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	if err := h.authService.Logout(ctx.UserContext(), middlewares.CurrentToken(ctx)); err != nil {
		return err
	}
	h.recorder.RecordLogout(ctx.UserContext(), audit.SessionRecord{
		UserID: user.ID,
		Email:  user.Email,
		Client: clientInfo(ctx),
	})
	publishEvent(ctx.UserContext(), h.publisher, events.Event{Type: events.EventUserLoggedOut, UserID: user.ID})
	return ctx.JSON(MessageResponse{Message: "Successfully logged out"})
}

// PostRefresh exchanges the bearer refresh token for a new token pair.
func (h *AuthHandler) PostRefresh(ctx *fiber.Ctx) error {
	refreshToken, ok := middlewares.BearerToken(ctx)
	if !ok {
		return auth.ErrInvalidCredentials
	}
	pair, user, err := h.authService.Refresh(ctx.UserContext(), refreshToken)
	if user != nil {
		reused := errors.Is(err, auth.ErrInvalidRefreshToken)
		if err == nil || reused {
			h.recorder.RecordRefresh(ctx.UserContext(), audit.SessionRecord{
				UserID: user.ID,
				Email:  user.Email,
				Client: clientInfo(ctx),
			}, reused)
		}
	}
	if err != nil {
		return err
	}
	return ctx.JSON(pair)
}

func NewAuthHandler(authService AuthService, userService UserService, recorder AuditRecorder, publisher events.Publisher) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		recorder:    recorder,
		publisher:   publisher,
	}
}
