package users

import (
	"context"
	"errors"
	"strings"

	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/model"
	"gorm.io/gorm"
)

type CreateUserOptions struct {
	Username string
	Email    string
	Password string
	Sex      string
	Avatar   string
}

// UpdateProfileOptions holds the profile fields to change, nil fields are left untouched.
type UpdateProfileOptions struct {
	Username *string
	Sex      *string
	Avatar   *string
}

type UserService struct {
	db       *gorm.DB
	userRepo UserRepository
	hasher   *common.PasswordHasher
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.First(ctx, UserID(userID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.First(ctx, UserEmail(NormalizeEmail(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.Find(ctx)
}

func (s *UserService) checkUserExist(ctx context.Context, email string, username string) error {
	existing, err := s.userRepo.First(ctx, UserEmailOrUsername(email, username))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		if existing.Email == email {
			return ErrEmailRegistered
		}
		return ErrUsernameTaken
	}
	return nil
}

// CreateUser registers a new identity. The very first identity becomes an admin.
func (s *UserService) CreateUser(ctx context.Context, opts CreateUserOptions) (*model.User, error) {
	opts.Email = NormalizeEmail(opts.Email)
	opts.Username = strings.TrimSpace(opts.Username)
	if err := validateUsername(opts.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(opts.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(opts.Password); err != nil {
		return nil, err
	}
	if err := validateSex(opts.Sex); err != nil {
		return nil, err
	}
	if err := s.checkUserExist(ctx, opts.Email, opts.Username); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(opts.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username: opts.Username,
		Email:    opts.Email,
		Sex:      opts.Sex,
		Password: passwordHash,
		Avatar:   opts.Avatar,
		Role:     model.RoleUser,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		count, err := userRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			user.Role = model.RoleAdmin
		}
		return userRepo.Create(ctx, &user)
	})
	if common.IsDuplicateKeyError(err) {
		return nil, s.checkUserExistAfterConflict(ctx, opts.Email, opts.Username)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// checkUserExistAfterConflict names the column a concurrent signup won.
func (s *UserService) checkUserExistAfterConflict(ctx context.Context, email string, username string) error {
	if err := s.checkUserExist(ctx, email, username); err != nil {
		return err
	}
	return ErrEmailRegistered
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, opts UpdateProfileOptions) (*model.User, error) {
	updates := map[string]interface{}{}
	if opts.Username != nil {
		username := strings.TrimSpace(*opts.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		existing, err := s.userRepo.First(ctx, UserUsername(username))
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrUsernameTaken
		}
		updates[colUserUsername] = username
	}
	if opts.Sex != nil {
		if err := validateSex(*opts.Sex); err != nil {
			return nil, err
		}
		updates[colUserSex] = *opts.Sex
	}
	if opts.Avatar != nil {
		updates[colUserAvatar] = strings.TrimSpace(*opts.Avatar)
	}
	if len(updates) > 0 {
		_, err := s.userRepo.Updates(ctx, updates, UserID(userID))
		if common.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		if err != nil {
			return nil, err
		}
	}
	return s.GetUserByID(ctx, userID)
}

// SetRefreshToken stores the identity's current refresh token. An empty token clears it.
func (s *UserService) SetRefreshToken(ctx context.Context, userID uint, token string) error {
	_, err := s.userRepo.Updates(ctx, map[string]interface{}{colUserRefreshToken: token}, UserID(userID))
	return err
}

// SetBanned bans or unbans an identity. Banning also drops its refresh token.
func (s *UserService) SetBanned(ctx context.Context, actorID uint, userID uint, banned bool) (*model.User, error) {
	if actorID == userID {
		return nil, ErrCannotModifySelf
	}
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{colUserBanned: banned}
	if banned {
		updates[colUserRefreshToken] = ""
	}
	if _, err := s.userRepo.Updates(ctx, updates, UserID(userID)); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *UserService) SetRole(ctx context.Context, actorID uint, userID uint, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, model.ErrUnknownRole
	}
	if actorID == userID {
		return nil, ErrCannotModifySelf
	}
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.Updates(ctx, map[string]interface{}{colUserRole: role}, UserID(userID)); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func NewUserService(db *gorm.DB, userRepo UserRepository, hasher *common.PasswordHasher) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
		hasher:   hasher,
	}
}
