package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
	"gorm.io/gorm"
)

// ImageFinder reports whether an image exists.
type ImageFinder interface {
	GetImage(ctx context.Context, imageID uint) (*model.Image, error)
}

type CommentService struct {
	commentRepo CommentRepository
	images      ImageFinder
}

func validateBody(body string) error {
	n := utf8.RuneCountInString(body)
	if n == 0 || n > params.CommentMaxLength {
		return common.NewValidationError("body", fmt.Sprintf("must be 1 to %d characters", params.CommentMaxLength))
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, userID uint, imageID uint, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if _, err := s.images.GetImage(ctx, imageID); err != nil {
		return nil, err
	}
	comment := model.Comment{
		Body:    body,
		UserID:  userID,
		ImageID: imageID,
	}
	if err := s.commentRepo.Create(ctx, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, commentID uint) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	return comment, err
}

func (s *CommentService) ListImageComments(ctx context.Context, imageID uint) ([]*model.Comment, error) {
	if _, err := s.images.GetImage(ctx, imageID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByImage(ctx, imageID)
}

func (s *CommentService) ListComments(ctx context.Context) ([]*model.Comment, error) {
	return s.commentRepo.List(ctx)
}

// UpdateComment changes the body of a comment. Only its author may do so.
func (s *CommentService) UpdateComment(ctx context.Context, userID uint, commentID uint, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if err := validateBody(body); err != nil {
		return nil, err
	}
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotAuthor
	}
	if err := s.commentRepo.UpdateBody(ctx, commentID, body); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, commentID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID uint) (*model.Comment, error) {
	comment, err := s.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return comment, s.commentRepo.Delete(ctx, comment)
}

func NewCommentService(commentRepo CommentRepository, images ImageFinder) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		images:      images,
	}
}
