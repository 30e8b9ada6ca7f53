package tags

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

// NormalizeTagName returns the stored form of a tag name.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateTagName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > params.TagNameMaxLength {
		return common.NewValidationError("name", fmt.Sprintf("must be 1 to %d characters", params.TagNameMaxLength))
	}
	return nil
}

type TagService struct {
	tagRepo TagRepository
}

func (s *TagService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name = NormalizeTagName(name)
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	if _, err := s.tagRepo.FindByName(ctx, name); err == nil {
		return nil, ErrTagExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	tag := model.Tag{Name: name}
	err := s.tagRepo.Create(ctx, &tag)
	if common.IsDuplicateKeyError(err) {
		return nil, ErrTagExists
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) GetTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

func (s *TagService) GetTagByName(ctx context.Context, name string) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByName(ctx, NormalizeTagName(name))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

func (s *TagService) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) RenameTag(ctx context.Context, id uint, name string) (*model.Tag, error) {
	name = NormalizeTagName(name)
	if err := validateTagName(name); err != nil {
		return nil, err
	}
	existing, err := s.tagRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, ErrTagExists
	}
	affected, err := s.tagRepo.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if affected == 0 && existing == nil {
		return nil, ErrTagNotFound
	}
	return s.GetTag(ctx, id)
}

func (s *TagService) DeleteTag(ctx context.Context, id uint) (*model.Tag, error) {
	tag, err := s.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	return tag, s.tagRepo.Delete(ctx, tag)
}

func (s *TagService) DeleteTagByName(ctx context.Context, name string) (*model.Tag, error) {
	tag, err := s.GetTagByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return tag, s.tagRepo.Delete(ctx, tag)
}

// ResolveTags validates names and returns the matching tags, creating missing
// ones. Duplicate names collapse into one tag.
func (s *TagService) ResolveTags(ctx context.Context, tx *gorm.DB, names []string) ([]model.Tag, error) {
	tagRepo := s.tagRepo
	if tx != nil {
		tagRepo = tagRepo.WithTx(tx)
	}
	seen := make(map[string]struct{}, len(names))
	result := make([]model.Tag, 0, len(names))
	for _, name := range names {
		name = NormalizeTagName(name)
		if _, ok := seen[name]; ok {
			continue
		}
		if err := validateTagName(name); err != nil {
			return nil, err
		}
		seen[name] = struct{}{}
		tag, err := tagRepo.FirstOrCreate(ctx, name)
		if err != nil {
			return nil, err
		}
		result = append(result, *tag)
	}
	return result, nil
}

func NewTagService(tagRepo TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}
