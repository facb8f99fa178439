package businessflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminUserFlow handles user administration. All operations assume the
// caller was already checked for the ADMIN role by the middleware.
type AdminUserFlow interface {
	ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error)
	GetUser(ctx context.Context, userID uint) (*dto.UserDTO, error)
	UpdateRoles(ctx context.Context, userID uint, req *dto.UpdateRolesRequest) (*dto.UserDTO, error)
	SetActive(ctx context.Context, userID uint, active bool) (*dto.UserDTO, error)
	ResetPassword(ctx context.Context, userID uint, req *dto.ResetPasswordRequest) error
	DeleteUser(ctx context.Context, actorID uint, userID uint) error
	ExportUsers(ctx context.Context) ([]byte, error)
}

// AdminUserFlowImpl implements the user administration flow
type AdminUserFlowImpl struct {
	userRepo    repository.UserRepository
	sessionRepo repository.UserSessionRepository
	db          *gorm.DB
}

// NewAdminUserFlow creates a new admin user flow instance
func NewAdminUserFlow(
	userRepo repository.UserRepository,
	sessionRepo repository.UserSessionRepository,
	db *gorm.DB,
) AdminUserFlow {
	return &AdminUserFlowImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		db:          db,
	}
}

// ListUsers returns a page of users, newest first
func (af *AdminUserFlowImpl) ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	perPage := utils.UsersPageSize
	filter := models.UserFilter{}

	total, err := af.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	users, err := af.userRepo.ByFilter(ctx, filter, "id DESC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserDTO(*u))
	}

	return &dto.ListUsersResponse{
		Users:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// GetUser returns a single user by ID
func (af *AdminUserFlowImpl) GetUser(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	user, err := af.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	result := ToUserDTO(*user)
	return &result, nil
}

// UpdateRoles replaces the user's role set. The USER role is always kept so
// an account never ends up without a role.
func (af *AdminUserFlowImpl) UpdateRoles(ctx context.Context, userID uint, req *dto.UpdateRolesRequest) (*dto.UserDTO, error) {
	var result *dto.UserDTO
	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := af.userRepo.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		roles := normalizeRoles(req.Roles)
		if err := af.userRepo.UpdateRoles(ctx, userID, roles); err != nil {
			return err
		}

		user.Roles = roles
		d := ToUserDTO(*user)
		result = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetActive toggles the account's active flag. Deactivating also retires
// all open sessions so the user is signed out everywhere.
func (af *AdminUserFlowImpl) SetActive(ctx context.Context, userID uint, active bool) (*dto.UserDTO, error) {
	var result *dto.UserDTO
	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := af.userRepo.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		user.IsActive = utils.ToPtr(active)
		if err := af.userRepo.Save(ctx, user); err != nil {
			return err
		}

		if !active {
			if err := af.sessionRepo.DeactivateAllForUser(ctx, userID); err != nil {
				return err
			}
		}

		d := ToUserDTO(*user)
		result = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResetPassword sets a new password without checking the old one and
// retires all of the user's sessions
func (af *AdminUserFlowImpl) ResetPassword(ctx context.Context, userID uint, req *dto.ResetPasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordsMismatch
	}

	return repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := af.userRepo.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if err := af.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
			return err
		}

		return af.sessionRepo.DeactivateAllForUser(ctx, userID)
	})
}

// DeleteUser removes a user account. An admin cannot delete their own
// account.
func (af *AdminUserFlowImpl) DeleteUser(ctx context.Context, actorID uint, userID uint) error {
	if actorID == userID {
		return ErrCannotDeleteSelf
	}

	return repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		user, err := af.userRepo.ByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := af.sessionRepo.DeactivateAllForUser(ctx, userID); err != nil {
			return err
		}

		return af.userRepo.Delete(ctx, userID)
	})
}

// ExportUsers builds an xlsx workbook with all user accounts
func (af *AdminUserFlowImpl) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := af.userRepo.ByFilter(ctx, models.UserFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Users"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"ID", "UUID", "Email", "Roles", "Active", "Created At", "Last Login At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, u := range users {
		lastLogin := ""
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.UTC().Format("2006-01-02 15:04:05")
		}
		values := []any{
			u.ID,
			u.UUID.String(),
			u.Email,
			fmt.Sprintf("%v", []string(u.Roles)),
			utils.IsTrue(u.IsActive),
			u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			lastLogin,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeRoles deduplicates the requested roles and guarantees USER is
// present
func normalizeRoles(requested []string) []string {
	seen := map[string]bool{models.RoleUser: true}
	roles := []string{models.RoleUser}
	for _, r := range requested {
		if r != models.RoleUser && r != models.RoleAdmin {
			continue
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		roles = append(roles, r)
	}
	return roles
}
