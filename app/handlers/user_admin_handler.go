package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/app/middleware"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/utils"
)

// UserAdminHandlerInterface defines the contract for user administration handlers
type UserAdminHandlerInterface interface {
	ListUsers(c fiber.Ctx) error
	GetUser(c fiber.Ctx) error
	UpdateRoles(c fiber.Ctx) error
	SetActive(c fiber.Ctx) error
	ResetPassword(c fiber.Ctx) error
	DeleteUser(c fiber.Ctx) error
	ExportUsers(c fiber.Ctx) error
}

// UserAdminHandler handles user administration HTTP requests
type UserAdminHandler struct {
	adminFlow businessflow.AdminUserFlow
	validator *validator.Validate
}

// NewUserAdminHandler creates a new user administration handler
func NewUserAdminHandler(adminFlow businessflow.AdminUserFlow) *UserAdminHandler {
	return &UserAdminHandler{
		adminFlow: adminFlow,
		validator: validator.New(),
	}
}

// ListUsers returns a page of user accounts
// @Summary List Users
// @Description List user accounts, newest first (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.ListUsersResponse}
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users [get]
func (h *UserAdminHandler) ListUsers(c fiber.Ctx) error {
	result, err := h.adminFlow.ListUsers(createRequestContext(c, "/api/v1/admin/users"), parsePageParam(c))
	if err != nil {
		if businessflow.IsInvalidPage(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}

		log.Println("List users failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "LIST_USERS_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Users retrieved", result)
}

// GetUser returns a single user account
// @Summary Get User
// @Description Get a user account by ID (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO}
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/{id} [get]
func (h *UserAdminHandler) GetUser(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	result, err := h.adminFlow.GetUser(createRequestContext(c, "/api/v1/admin/users/:id"), userID)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Get user failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get user", "GET_USER_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "User retrieved", result)
}

// UpdateRoles replaces a user's role set
// @Summary Update User Roles
// @Description Replace a user's role set (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateRolesRequest true "Role set"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/{id}/roles [put]
func (h *UserAdminHandler) UpdateRoles(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	var req dto.UpdateRolesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.adminFlow.UpdateRoles(createRequestContext(c, "/api/v1/admin/users/:id/roles"), userID, &req)
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Update roles failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update roles", "UPDATE_ROLES_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Roles updated", result)
}

// SetActive toggles a user's active flag
// @Summary Activate or Deactivate User
// @Description Toggle a user's active flag, deactivation signs the user out everywhere (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse{data=dto.UserDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/{id}/active [put]
func (h *UserAdminHandler) SetActive(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	var req dto.SetActiveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.adminFlow.SetActive(createRequestContext(c, "/api/v1/admin/users/:id/active"), userID, utils.IsTrue(req.IsActive))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Set active failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update user", "SET_ACTIVE_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "User updated", result)
}

// ResetPassword sets a new password for a user without the old one
// @Summary Reset User Password
// @Description Set a new password for a user and retire their sessions (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.APIResponse "Password reset"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/{id}/password [put]
func (h *UserAdminHandler) ResetPassword(c fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	var req dto.ResetPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	if err := h.adminFlow.ResetPassword(createRequestContext(c, "/api/v1/admin/users/:id/password"), userID, &req); err != nil {
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsPasswordsMismatch(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Password confirmation does not match", "PASSWORDS_MISMATCH", nil)
		}

		log.Println("Reset password failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to reset password", "RESET_PASSWORD_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Password reset", nil)
}

// DeleteUser removes a user account
// @Summary Delete User
// @Description Delete a user account, admins cannot delete themselves (admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse "User deleted"
// @Failure 400 {object} dto.APIResponse "Cannot delete own account"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserAdminHandler) DeleteUser(c fiber.Ctx) error {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	userID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid user ID", "INVALID_USER_ID", nil)
	}

	if err := h.adminFlow.DeleteUser(createRequestContext(c, "/api/v1/admin/users/:id"), actorID, userID); err != nil {
		if businessflow.IsCannotDeleteSelf(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Administrators cannot delete their own account", "CANNOT_DELETE_SELF", nil)
		}
		if businessflow.IsUserNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}

		log.Println("Delete user failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete user", "DELETE_USER_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "User deleted", nil)
}

// ExportUsers streams all user accounts as an xlsx workbook
// @Summary Export Users
// @Description Download all user accounts as an xlsx workbook (admin only)
// @Tags Users
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary "Workbook"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/users/export [get]
func (h *UserAdminHandler) ExportUsers(c fiber.Ctx) error {
	data, err := h.adminFlow.ExportUsers(createRequestContextWithTimeout(c, "/api/v1/admin/users/export", 2*time.Minute))
	if err != nil {
		log.Println("Export users failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export users", "EXPORT_USERS_FAILED", nil)
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
