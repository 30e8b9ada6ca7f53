package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/audit"
	"github.com/khanghh/photoshare/internal/middlewares"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
)

type UserHandler struct {
	userService  UserService
	imageService ImageService
	recorder     AuditRecorder
}

type updateProfileRequest struct {
	Username *string `json:"username"`
	Sex      *string `json:"sex"`
	Avatar   *string `json:"avatar"`
}

type changeRoleRequest struct {
	Role string `json:"role" form:"role"`
}

func (h *UserHandler) GetMe(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	return ctx.JSON(NewDataResponse(newUserInfoResponse(user)))
}

func (h *UserHandler) PatchMe(ctx *fiber.Ctx) error {
	var req updateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	user := middlewares.CurrentUser(ctx)
	updated, err := h.userService.UpdateProfile(ctx.UserContext(), user.ID, users.UpdateProfileOptions{
		Username: req.Username,
		Sex:      req.Sex,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newUserInfoResponse(updated)))
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	list, err := h.userService.ListUsers(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newUserInfoResponse)))
}

// GetUserProfile returns the public profile of a user with the number of uploaded images.
func (h *UserHandler) GetUserProfile(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	count, err := h.imageService.CountUserImages(ctx.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(UserProfileResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Avatar:     user.Avatar,
		Role:       user.Role.String(),
		ImageCount: count,
		CreatedAt:  user.CreatedAt,
	}))
}

func (h *UserHandler) setBanned(ctx *fiber.Ctx, banned bool) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	actor := middlewares.CurrentUser(ctx)
	user, err := h.userService.SetBanned(ctx.UserContext(), actor.ID, userID, banned)
	if err != nil {
		return err
	}
	eventType := audit.EventTypeUserUnbanned
	if banned {
		eventType = audit.EventTypeUserBanned
	}
	h.recorder.RecordModeration(ctx.UserContext(), audit.ModerationRecord{
		ActorID:   actor.ID,
		UserID:    user.ID,
		Email:     user.Email,
		EventType: eventType,
		Client:    clientInfo(ctx),
	})
	return ctx.JSON(NewDataResponse(newUserInfoResponse(user)))
}

func (h *UserHandler) PutBan(ctx *fiber.Ctx) error {
	return h.setBanned(ctx, true)
}

func (h *UserHandler) DeleteBan(ctx *fiber.Ctx) error {
	return h.setBanned(ctx, false)
}

func (h *UserHandler) PutRole(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return err
	}
	actor := middlewares.CurrentUser(ctx)
	user, err := h.userService.SetRole(ctx.UserContext(), actor.ID, userID, role)
	if err != nil {
		return err
	}
	h.recorder.RecordModeration(ctx.UserContext(), audit.ModerationRecord{
		ActorID:   actor.ID,
		UserID:    user.ID,
		Email:     user.Email,
		EventType: audit.EventTypeRoleChanged,
		Reason:    "role set to " + role.String(),
		Client:    clientInfo(ctx),
	})
	return ctx.JSON(NewDataResponse(newUserInfoResponse(user)))
}

func NewUserHandler(userService UserService, imageService ImageService, recorder AuditRecorder) *UserHandler {
	return &UserHandler{
		userService:  userService,
		imageService: imageService,
		recorder:     recorder,
	}
}
