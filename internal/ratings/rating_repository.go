package ratings

import (
	"context"

	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

// ImageScore is the aggregated rating of one image.
type ImageScore struct {
	ImageID uint    `json:"imageId"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type RatingRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Rating, error)
	FindByUser(ctx context.Context, userID uint) ([]*model.Rating, error)
	FindByUserAndImage(ctx context.Context, userID uint, imageID uint) (*model.Rating, error)
	Exists(ctx context.Context, userID uint, imageID uint) (bool, error)
	Create(ctx context.Context, rating *model.Rating) error
	Delete(ctx context.Context, rating *model.Rating) error
	ScoreOf(ctx context.Context, imageID uint) (*ImageScore, error)
	TopScores(ctx context.Context, limit int) ([]*ImageScore, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func (r *ratingRepository) FindByID(ctx context.Context, id uint) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByUser(ctx context.Context, userID uint) ([]*model.Rating, error) {
	var ratings []*model.Rating
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) FindByUserAndImage(ctx context.Context, userID uint, imageID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).Where("user_id = ? AND image_id = ?", userID, imageID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) Exists(ctx context.Context, userID uint, imageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&count).Error
	return count > 0, err
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) Delete(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Delete(rating).Error
}

func (r *ratingRepository) scores() *gorm.DB {
	return r.db.Model(&model.Rating{}).
		Select("image_id, AVG(rate) AS average, COUNT(*) AS count").
		Group("image_id")
}

func (r *ratingRepository) ScoreOf(ctx context.Context, imageID uint) (*ImageScore, error) {
	var scores []*ImageScore
	if err := r.scores().WithContext(ctx).Where("image_id = ?", imageID).Scan(&scores).Error; err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return &ImageScore{ImageID: imageID}, nil
	}
	return scores[0], nil
}

func (r *ratingRepository) TopScores(ctx context.Context, limit int) ([]*ImageScore, error) {
	var scores []*ImageScore
	query := r.scores().WithContext(ctx).Order("average desc").Order("image_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&scores).Error
	return scores, err
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db}
}
