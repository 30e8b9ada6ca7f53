package comments

import (
	"context"

	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

type CommentRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	FindByImage(ctx context.Context, imageID uint) ([]*model.Comment, error)
	List(ctx context.Context) ([]*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	UpdateBody(ctx context.Context, id uint, body string) error
	Delete(ctx context.Context, comment *model.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByImage(ctx context.Context, imageID uint) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).Where("image_id = ?", imageID).Order("id").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) List(ctx context.Context) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).Order("id").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) UpdateBody(ctx context.Context, id uint, body string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("body", body).Error
}

func (r *commentRepository) Delete(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Delete(comment).Error
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db}
}
