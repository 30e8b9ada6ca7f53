package users

import (
	"context"

	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

const (
	colUserID           = "id"
	colUserEmail        = "email"
	colUserUsername     = "username"
	colUserSex          = "sex"
	colUserAvatar       = "avatar"
	colUserRole         = "role"
	colUserBanned       = "banned"
	colUserRefreshToken = "refresh_token"
)

// Condition narrows a query, in the manner of a gorm scope.
type Condition = func(*gorm.DB) *gorm.DB

func UserID(id uint) Condition {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(colUserID+" = ?", id)
	}
}

func UserEmail(email string) Condition {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(colUserEmail+" = ?", email)
	}
}

func UserUsername(username string) Condition {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(colUserUsername+" = ?", username)
	}
}

func UserEmailOrUsername(email, username string) Condition {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(colUserEmail+" = ?", email).Or(colUserUsername+" = ?", username)
	}
}

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	First(ctx context.Context, conds ...Condition) (*model.User, error)
	Find(ctx context.Context, conds ...Condition) ([]*model.User, error)
	Count(ctx context.Context, conds ...Condition) (int64, error)
	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, columns map[string]interface{}, conds ...Condition) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) First(ctx context.Context, conds ...Condition) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Scopes(conds...).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Find(ctx context.Context, conds ...Condition) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Scopes(conds...).Order("created_at").Find(&users).Error
	return users, err
}

func (r *userRepository) Count(ctx context.Context, conds ...Condition) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Scopes(conds...).Count(&count).Error
	return count, err
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Updates(ctx context.Context, columns map[string]interface{}, conds ...Condition) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.User{}).Scopes(conds...).Updates(columns)
	return ret.RowsAffected, ret.Error
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}
