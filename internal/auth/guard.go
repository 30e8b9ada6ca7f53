package auth

import "github.com/khanghh/photoshare/model"

// Guard permits an operation for a fixed set of roles.
type Guard struct {
	admin     bool
	moderator bool
	user      bool
}

var (
	AllRoles          = NewGuard(model.RoleAdmin, model.RoleModerator, model.RoleUser)
	AdminAndModerator = NewGuard(model.RoleAdmin, model.RoleModerator)
	AdminOnly         = NewGuard(model.RoleAdmin)
)

func NewGuard(roles ...model.Role) Guard {
	var g Guard
	for _, role := range roles {
		switch role {
		case model.RoleAdmin:
			g.admin = true
		case model.RoleModerator:
			g.moderator = true
		case model.RoleUser:
			g.user = true
		}
	}
	return g
}

func (g Guard) Allows(role model.Role) bool {
	switch role {
	case model.RoleAdmin:
		return g.admin
	case model.RoleModerator:
		return g.moderator
	case model.RoleUser:
		return g.user
	}
	return false
}

// Check returns ErrForbidden unless the identity's role is allowed.
func (g Guard) Check(user *model.User) error {
	if user == nil || !g.Allows(user.Role) {
		return ErrForbidden
	}
	return nil
}
