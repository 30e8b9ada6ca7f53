package tags

import (
	"context"

	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	List(ctx context.Context) ([]*model.Tag, error)
	Create(ctx context.Context, tag *model.Tag) error
	FirstOrCreate(ctx context.Context, name string) (*model.Tag, error)
	Rename(ctx context.Context, id uint, name string) (int64, error)
	Delete(ctx context.Context, tag *model.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

func (r *tagRepository) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) FirstOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	tag := model.Tag{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Rename(ctx context.Context, id uint, name string) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.Tag{}).Where("id = ?", id).Update("name", name)
	return ret.RowsAffected, ret.Error
}

// Delete removes the tag and detaches it from every image.
func (r *tagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		joinTable := tx.NamingStrategy.JoinTableName("image_tag")
		if err := tx.Exec("DELETE FROM "+joinTable+" WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return NewTagRepository(tx)
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db}
}
