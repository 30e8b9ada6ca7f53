package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/middlewares"
)

type CommentHandler struct {
	commentService CommentService
}

type createCommentRequest struct {
	ImageID uint   `json:"imageId" form:"imageId"`
	Body    string `json:"body"    form:"body"`
}

type updateCommentRequest struct {
	Body string `json:"body" form:"body"`
}

func (h *CommentHandler) PostComment(ctx *fiber.Ctx) error {
	var req createCommentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	user := middlewares.CurrentUser(ctx)
	comment, err := h.commentService.CreateComment(ctx.UserContext(), user.ID, req.ImageID, req.Body)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(newCommentResponse(comment)))
}

func (h *CommentHandler) GetComment(ctx *fiber.Ctx) error {
	commentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentService.GetComment(ctx.UserContext(), commentID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newCommentResponse(comment)))
}

func (h *CommentHandler) ListImageComments(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "imageId")
	if err != nil {
		return err
	}
	list, err := h.commentService.ListImageComments(ctx.UserContext(), imageID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newCommentResponse)))
}

func (h *CommentHandler) ListComments(ctx *fiber.Ctx) error {
	list, err := h.commentService.ListComments(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newCommentResponse)))
}

func (h *CommentHandler) PatchComment(ctx *fiber.Ctx) error {
	commentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	user := middlewares.CurrentUser(ctx)
	comment, err := h.commentService.UpdateComment(ctx.UserContext(), user.ID, commentID, req.Body)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newCommentResponse(comment)))
}

func (h *CommentHandler) DeleteComment(ctx *fiber.Ctx) error {
	commentID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentService.DeleteComment(ctx.UserContext(), commentID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newCommentResponse(comment)))
}

func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}
