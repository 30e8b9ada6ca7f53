package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
	"gorm.io/gorm"
)

// TagResolver maps tag names to stored tags, creating the missing ones.
type TagResolver interface {
	ResolveTags(ctx context.Context, tx *gorm.DB, names []string) ([]model.Tag, error)
}

type UploadImageOptions struct {
	UserID      uint
	Description string
	Tags        []string
	Filename    string
	Content     io.Reader
}

type ImageService struct {
	db          *gorm.DB
	imageRepo   ImageRepository
	tagResolver TagResolver
	assets      AssetProvider
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > params.DescriptionMaxLength {
		return common.NewValidationError("description", fmt.Sprintf("must be at most %d characters", params.DescriptionMaxLength))
	}
	return nil
}

// SplitTags parses a comma or space separated tag list.
func SplitTags(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '#'
	})
}

func countDistinctTags(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	return len(seen)
}

// UploadImage stores the file with the asset provider and records it. The
// asset is removed again when the record cannot be written.
func (s *ImageService) UploadImage(ctx context.Context, opts UploadImageOptions) (*model.Image, error) {
	if opts.Content == nil {
		return nil, ErrEmptyFile
	}
	opts.Description = strings.TrimSpace(opts.Description)
	if err := validateDescription(opts.Description); err != nil {
		return nil, err
	}
	if countDistinctTags(opts.Tags) > params.MaxTagsPerImage {
		return nil, ErrTooManyTags
	}

	asset, err := s.assets.Upload(ctx, opts.Content, opts.Filename)
	if err != nil {
		return nil, err
	}

	image := model.Image{
		UserID:      opts.UserID,
		URL:         asset.URL,
		PublicID:    asset.PublicID,
		Description: opts.Description,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := s.tagResolver.ResolveTags(ctx, tx, opts.Tags)
		if err != nil {
			return err
		}
		image.Tags = tags
		return s.imageRepo.WithTx(tx).Create(ctx, &image)
	})
	if err != nil {
		if delErr := s.assets.Delete(context.WithoutCancel(ctx), asset.PublicID); delErr != nil {
			slog.Error("Failed to remove orphaned asset", "publicID", asset.PublicID, "error", delErr)
		}
		return nil, err
	}
	return &image, nil
}

func (s *ImageService) GetImage(ctx context.Context, imageID uint) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrImageNotFound
	}
	return image, err
}

func (s *ImageService) SearchImages(ctx context.Context, filter SearchFilter) ([]*model.Image, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	return s.imageRepo.Search(ctx, filter)
}

func (s *ImageService) CountUserImages(ctx context.Context, userID uint) (int64, error) {
	return s.imageRepo.CountByUser(ctx, userID)
}

// AddTag attaches a tag to an image owned by actor, creating the tag when it
// does not exist yet. Adding a tag the image already carries is a no-op.
func (s *ImageService) AddTag(ctx context.Context, actor *model.User, imageID uint, name string) (*model.Image, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		imageRepo := s.imageRepo.WithTx(tx)
		image, err := imageRepo.FindByID(ctx, imageID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		if err != nil {
			return err
		}
		if image.UserID != actor.ID {
			return ErrNotOwner
		}

		normalized := strings.ToLower(strings.TrimSpace(name))
		for _, tag := range image.Tags {
			if tag.Name == normalized {
				return nil
			}
		}
		if len(image.Tags) >= params.MaxTagsPerImage {
			return ErrTooManyTags
		}
		tags, err := s.tagResolver.ResolveTags(ctx, tx, []string{name})
		if err != nil {
			return err
		}
		return imageRepo.AppendTags(ctx, image, tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetImage(ctx, imageID)
}

// UpdateDescription changes the description of an image owned by actor.
func (s *ImageService) UpdateDescription(ctx context.Context, actor *model.User, imageID uint, description string) (*model.Image, error) {
	description = strings.TrimSpace(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	image, err := s.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.UserID != actor.ID {
		return nil, ErrNotOwner
	}
	if err := s.imageRepo.UpdateDescription(ctx, imageID, description); err != nil {
		return nil, err
	}
	image.Description = description
	return image, nil
}

// DeleteImage removes an image owned by actor, admins may remove any image.
func (s *ImageService) DeleteImage(ctx context.Context, actor *model.User, imageID uint) (*model.Image, error) {
	image, err := s.GetImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return nil, ErrNotOwner
	}
	if err := s.imageRepo.Delete(ctx, image); err != nil {
		return nil, err
	}
	if err := s.assets.Delete(ctx, image.PublicID); err != nil {
		slog.Error("Failed to delete asset", "publicID", image.PublicID, "error", err)
	}
	return image, nil
}

func NewImageService(db *gorm.DB, imageRepo ImageRepository, tagResolver TagResolver, assets AssetProvider) *ImageService {
	return &ImageService{
		db:          db,
		imageRepo:   imageRepo,
		tagResolver: tagResolver,
		assets:      assets,
	}
}
