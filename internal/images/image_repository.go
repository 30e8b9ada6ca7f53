package images

import (
	"context"
	"strings"

	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

// SearchFilter narrows an image listing. Zero fields match everything.
type SearchFilter struct {
	Keyword   string
	Tag       string
	UserID    uint
	MinRating float64 // minimum average rate, unrated images never match
	Limit     int
	Offset    int
}

// likeEscaper makes LIKE wildcards in user input match literally. The escape
// character is '!', which every supported dialect reads literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type ImageRepository interface {
	WithTx(tx *gorm.DB) ImageRepository
	FindByID(ctx context.Context, id uint) (*model.Image, error)
	Search(ctx context.Context, filter SearchFilter) ([]*model.Image, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Create(ctx context.Context, image *model.Image) error
	AppendTags(ctx context.Context, image *model.Image, tags []model.Tag) error
	UpdateDescription(ctx context.Context, id uint, description string) error
	Delete(ctx context.Context, image *model.Image) error
}

type imageRepository struct {
	db *gorm.DB
}

func (r *imageRepository) FindByID(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Preload("Tags").First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) Search(ctx context.Context, filter SearchFilter) ([]*model.Image, error) {
	query := r.db.WithContext(ctx).Model(&model.Image{}).Preload("Tags")
	if filter.Keyword != "" {
		query = query.Where("description LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(filter.Keyword)+"%")
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Tag != "" {
		joinTable := r.db.NamingStrategy.JoinTableName("image_tag")
		tagTable := r.db.NamingStrategy.TableName("Tag")
		query = query.Where("id IN (?)",
			r.db.Table(joinTable).
				Select(joinTable+".image_id").
				Joins("JOIN "+tagTable+" ON "+tagTable+".id = "+joinTable+".tag_id").
				Where(tagTable+".name = ?", filter.Tag),
		)
	}
	if filter.MinRating > 0 {
		query = query.Where("id IN (?)",
			r.db.Model(&model.Rating{}).
				Select("image_id").
				Group("image_id").
				Having("AVG(rate) >= ?", filter.MinRating),
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	var images []*model.Image
	err := query.Order("created_at desc").Order("id desc").Find(&images).Error
	return images, err
}

func (r *imageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Image{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) AppendTags(ctx context.Context, image *model.Image, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(image).Association("Tags").Append(tags)
}

func (r *imageRepository) UpdateDescription(ctx context.Context, id uint, description string) error {
	return r.db.WithContext(ctx).Model(&model.Image{}).Where("id = ?", id).Update("description", description).Error
}

// Delete removes the image with its tag links, comments and ratings.
func (r *imageRepository) Delete(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(image).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", image.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", image.ID).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(image).Error
	})
}

func (r *imageRepository) WithTx(tx *gorm.DB) ImageRepository {
	return NewImageRepository(tx)
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db}
}
