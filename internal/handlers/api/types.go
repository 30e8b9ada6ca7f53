package api

import (
	"context"

	"github.com/khanghh/photoshare/internal/audit"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/internal/images"
	"github.com/khanghh/photoshare/internal/ratings"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
)

type AuthService interface {
	Login(ctx context.Context, email string, password string) (*auth.TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, *model.User, error)
	Logout(ctx context.Context, accessToken string) error
}

type UserService interface {
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CreateUser(ctx context.Context, opts users.CreateUserOptions) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, opts users.UpdateProfileOptions) (*model.User, error)
	SetBanned(ctx context.Context, actorID uint, userID uint, banned bool) (*model.User, error)
	SetRole(ctx context.Context, actorID uint, userID uint, role model.Role) (*model.User, error)
}

type ImageService interface {
	UploadImage(ctx context.Context, opts images.UploadImageOptions) (*model.Image, error)
	GetImage(ctx context.Context, imageID uint) (*model.Image, error)
	SearchImages(ctx context.Context, filter images.SearchFilter) ([]*model.Image, error)
	CountUserImages(ctx context.Context, userID uint) (int64, error)
	UpdateDescription(ctx context.Context, actor *model.User, imageID uint, description string) (*model.Image, error)
	AddTag(ctx context.Context, actor *model.User, imageID uint, name string) (*model.Image, error)
	DeleteImage(ctx context.Context, actor *model.User, imageID uint) (*model.Image, error)
}

type TagService interface {
	CreateTag(ctx context.Context, name string) (*model.Tag, error)
	GetTag(ctx context.Context, id uint) (*model.Tag, error)
	GetTagByName(ctx context.Context, name string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]*model.Tag, error)
	RenameTag(ctx context.Context, id uint, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uint) (*model.Tag, error)
	DeleteTagByName(ctx context.Context, name string) (*model.Tag, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, userID uint, imageID uint, body string) (*model.Comment, error)
	GetComment(ctx context.Context, commentID uint) (*model.Comment, error)
	ListImageComments(ctx context.Context, imageID uint) ([]*model.Comment, error)
	ListComments(ctx context.Context) ([]*model.Comment, error)
	UpdateComment(ctx context.Context, userID uint, commentID uint, body string) (*model.Comment, error)
	DeleteComment(ctx context.Context, commentID uint) (*model.Comment, error)
}

type RatingService interface {
	RateImage(ctx context.Context, userID uint, imageID uint, rate int) (*model.Rating, error)
	GetRating(ctx context.Context, ratingID uint) (*model.Rating, error)
	GetUserImageRating(ctx context.Context, userID uint, imageID uint) (*model.Rating, error)
	ListUserRatings(ctx context.Context, userID uint) ([]*model.Rating, error)
	ImageScore(ctx context.Context, imageID uint) (*ratings.ImageScore, error)
	TopRatedImages(ctx context.Context, limit int) ([]*ratings.RatedImage, error)
	DeleteRating(ctx context.Context, ratingID uint) (*model.Rating, error)
}

type AuditRecorder interface {
	RecordLogin(ctx context.Context, record audit.LoginRecord)
	RecordLogout(ctx context.Context, record audit.SessionRecord)
	RecordRefresh(ctx context.Context, record audit.SessionRecord, reused bool)
	RecordModeration(ctx context.Context, record audit.ModerationRecord)
}
