package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
	"github.com/mnemosyne-app/mnemosyne/utils"
)

// TagHandlerInterface defines the contract for tag handlers
type TagHandlerInterface interface {
	ListTags(c fiber.Ctx) error
	CreateTag(c fiber.Ctx) error
	UpdateTag(c fiber.Ctx) error
	DeleteTag(c fiber.Ctx) error
}

// TagHandler handles tag-related HTTP requests. Listing is open to all
// authenticated users, mutations are admin-only via routing. Tags also come
// into existence implicitly through the event and contact tag inputs.
type TagHandler struct {
	tagFlow   businessflow.TagFlow
	validator *validator.Validate
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagFlow businessflow.TagFlow) *TagHandler {
	return &TagHandler{
		tagFlow:   tagFlow,
		validator: validator.New(),
	}
}

// ListTags returns a page of tags
// @Summary List Tags
// @Description List tags usable on events and contacts
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.ListTagsResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/tags [get]
func (h *TagHandler) ListTags(c fiber.Ctx) error {
	result, err := h.tagFlow.ListTags(createRequestContext(c, "/api/v1/tags"), parsePageParam(c), utils.DefaultPageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}

		log.Println("List tags failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", "LIST_TAGS_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Tags retrieved", result)
}

// CreateTag creates a new tag
// @Summary Create Tag
// @Description Create a new tag (admin only)
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTagRequest true "Tag data"
// @Success 201 {object} dto.APIResponse{data=dto.TagDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 409 {object} dto.APIResponse "Title already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/tags [post]
func (h *TagHandler) CreateTag(c fiber.Ctx) error {
	var req dto.CreateTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.tagFlow.CreateTag(createRequestContext(c, "/api/v1/admin/tags"), &req)
	if err != nil {
		if businessflow.IsTagTitleTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Tag title already exists", "TAG_TITLE_TAKEN", nil)
		}

		log.Println("Create tag failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create tag", "CREATE_TAG_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusCreated, "Tag created", result)
}

// UpdateTag renames a tag
// @Summary Update Tag
// @Description Rename a tag (admin only)
// @Tags Tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param request body dto.UpdateTagRequest true "Tag data"
// @Success 200 {object} dto.APIResponse{data=dto.TagDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "Tag not found"
// @Failure 409 {object} dto.APIResponse "Title already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/tags/{id} [put]
func (h *TagHandler) UpdateTag(c fiber.Ctx) error {
	tagID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_TAG_ID", nil)
	}

	var req dto.UpdateTagRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.tagFlow.UpdateTag(createRequestContext(c, "/api/v1/admin/tags/:id"), tagID, &req)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}
		if businessflow.IsTagTitleTaken(err) {
			return ErrorResponse(c, fiber.StatusConflict, "Tag title already exists", "TAG_TITLE_TAKEN", nil)
		}

		log.Println("Update tag failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tag", "UPDATE_TAG_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Tag updated", result)
}

// DeleteTag removes a tag
// @Summary Delete Tag
// @Description Delete a tag and detach it from events and contacts (admin only)
// @Tags Tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} dto.APIResponse "Tag deleted"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 404 {object} dto.APIResponse "Tag not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/tags/{id} [delete]
func (h *TagHandler) DeleteTag(c fiber.Ctx) error {
	tagID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid tag ID", "INVALID_TAG_ID", nil)
	}

	if err := h.tagFlow.DeleteTag(createRequestContext(c, "/api/v1/admin/tags/:id"), tagID); err != nil {
		if businessflow.IsTagNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}

		log.Println("Delete tag failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete tag", "DELETE_TAG_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Tag deleted", nil)
}
