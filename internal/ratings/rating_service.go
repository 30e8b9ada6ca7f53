package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
	"gorm.io/gorm"
)

type ImageFinder interface {
	GetImage(ctx context.Context, imageID uint) (*model.Image, error)
}

// RatedImage is an image together with its score.
type RatedImage struct {
	Image *model.Image `json:"image"`
	ImageScore
}

type RatingService struct {
	ratingRepo RatingRepository
	images     ImageFinder
}

func (s *RatingService) RateImage(ctx context.Context, userID uint, imageID uint, rate int) (*model.Rating, error) {
	if rate < params.MinRate || rate > params.MaxRate {
		return nil, common.NewValidationError("rate", fmt.Sprintf("must be between %d and %d", params.MinRate, params.MaxRate))
	}
	image, err := s.images.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.UserID == userID {
		return nil, ErrOwnImage
	}
	rated, err := s.ratingRepo.Exists(ctx, userID, imageID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, ErrAlreadyRated
	}
	rating := model.Rating{
		Rate:    rate,
		UserID:  userID,
		ImageID: imageID,
	}
	err = s.ratingRepo.Create(ctx, &rating)
	if common.IsDuplicateKeyError(err) {
		return nil, ErrAlreadyRated
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (s *RatingService) GetRating(ctx context.Context, ratingID uint) (*model.Rating, error) {
	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRatingNotFound
	}
	return rating, err
}

// GetUserImageRating looks up the rating userID gave to imageID.
func (s *RatingService) GetUserImageRating(ctx context.Context, userID uint, imageID uint) (*model.Rating, error) {
	rating, err := s.ratingRepo.FindByUserAndImage(ctx, userID, imageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRatingNotFound
	}
	return rating, err
}

func (s *RatingService) ListUserRatings(ctx context.Context, userID uint) ([]*model.Rating, error) {
	return s.ratingRepo.FindByUser(ctx, userID)
}

// ImageScore returns the average rate of an image, zero when nobody rated it yet.
func (s *RatingService) ImageScore(ctx context.Context, imageID uint) (*ImageScore, error) {
	if _, err := s.images.GetImage(ctx, imageID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ScoreOf(ctx, imageID)
}

// TopRatedImages lists rated images by descending average.
func (s *RatingService) TopRatedImages(ctx context.Context, limit int) ([]*RatedImage, error) {
	scores, err := s.ratingRepo.TopScores(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := make([]*RatedImage, 0, len(scores))
	for _, score := range scores {
		image, err := s.images.GetImage(ctx, score.ImageID)
		if err != nil {
			return nil, err
		}
		result = append(result, &RatedImage{Image: image, ImageScore: *score})
	}
	return result, nil
}

func (s *RatingService) DeleteRating(ctx context.Context, ratingID uint) (*model.Rating, error) {
	rating, err := s.GetRating(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	return rating, s.ratingRepo.Delete(ctx, rating)
}

func NewRatingService(ratingRepo RatingRepository, images ImageFinder) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		images:     images,
	}
}
