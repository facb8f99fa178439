package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/utils"
)

// CategoryHandlerInterface defines the contract for category handlers
type CategoryHandlerInterface interface {
	ListCategories(c fiber.Ctx) error
	CreateCategory(c fiber.Ctx) error
	UpdateCategory(c fiber.Ctx) error
	DeleteCategory(c fiber.Ctx) error
}

// CategoryHandler handles category-related HTTP requests. Listing is open to
// all authenticated users, mutations are admin-only via routing.
type CategoryHandler struct {
	categoryFlow businessflow.CategoryFlow
	validator    *validator.Validate
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryFlow businessflow.CategoryFlow) *CategoryHandler {
	return &CategoryHandler{
		categoryFlow: categoryFlow,
		validator:    validator.New(),
	}
}

// ListCategories returns a page of categories
// @Summary List Categories
// @Description List categories available for event classification
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.ListCategoriesResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.categoryFlow.ListCategories(createRequestContext(c, "/api/v1/categories"), parsePageParam(c), utils.DefaultPageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}

		log.Println("List categories failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list categories", "LIST_CATEGORIES_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Categories retrieved", result)
}

// CreateCategory creates a new category
// @Summary Create Category
// @Description Create a new category (admin only)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category data"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 409 {object} dto.APIResponse "Title already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/categories [post]
func (h *CategoryHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.categoryFlow.CreateCategory(createRequestContext(c, "/api/v1/admin/categories"), &req)
	if err != nil {
		if businessflow.IsCategoryTitleTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Category title already exists", "CATEGORY_TITLE_TAKEN", nil)
		}

		log.Println("Create category failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create category", "CREATE_CATEGORY_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Category created", result)
}

// UpdateCategory renames a category
// @Summary Update Category
// @Description Rename a category (admin only)
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Category data"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Failure 409 {object} dto.APIResponse "Title already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c fiber.Ctx) error {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_CATEGORY_ID", nil)
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.categoryFlow.UpdateCategory(createRequestContext(c, "/api/v1/admin/categories/:id"), categoryID, &req)
	if err != nil {
		if businessflow.IsCategoryNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", nil)
		}
		if businessflow.IsCategoryTitleTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Category title already exists", "CATEGORY_TITLE_TAKEN", nil)
		}

		log.Println("Update category failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update category", "UPDATE_CATEGORY_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Category updated", result)
}

// DeleteCategory removes a category that has no events
// @Summary Delete Category
// @Description Delete a category, refused while events still reference it (admin only)
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse "Category deleted"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Failure 409 {object} dto.APIResponse "Category still in use"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c fiber.Ctx) error {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid category ID", "INVALID_CATEGORY_ID", nil)
	}

	if err := h.categoryFlow.DeleteCategory(createRequestContext(c, "/api/v1/admin/categories/:id"), categoryID); err != nil {
		if businessflow.IsCategoryNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Category not found", "CATEGORY_NOT_FOUND", nil)
		}
		if businessflow.IsCategoryInUse(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Category has associated events", "CATEGORY_IN_USE", nil)
		}

		log.Println("Delete category failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete category", "DELETE_CATEGORY_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Category deleted", nil)
}
