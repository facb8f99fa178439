package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/app/middleware"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
)

// ContactHandlerInterface defines the contract for contact handlers
type ContactHandlerInterface interface {
	ListContacts(c fiber.Ctx) error
	GetContact(c fiber.Ctx) error
	CreateContact(c fiber.Ctx) error
	UpdateContact(c fiber.Ctx) error
	DeleteContact(c fiber.Ctx) error
}

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactFlow businessflow.ContactFlow
	validator   *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactFlow businessflow.ContactFlow) *ContactHandler {
	return &ContactHandler{
		contactFlow: contactFlow,
		validator:   validator.New(),
	}
}

// ListContacts returns a page of the authenticated user's contacts
// @Summary List Contacts
// @Description List the authenticated user's contacts, most recently updated first
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.ListContactsResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts [get]
func (h *ContactHandler) ListContacts(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	result, err := h.contactFlow.ListContacts(createRequestContext(c, "/api/v1/contacts"), userID, parsePageParam(c))
	if err != nil {
		if businessflow.IsInvalidPage(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}
		if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Account is not available", "ACCOUNT_UNAVAILABLE", nil)
		}

		log.Println("List contacts failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list contacts", "LIST_CONTACTS_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Contacts retrieved", result)
}

// GetContact returns a single contact owned by the authenticated user
// @Summary Get Contact
// @Description Get one of the authenticated user's contacts by ID
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactDTO}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts/{id} [get]
func (h *ContactHandler) GetContact(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	contactID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", "INVALID_CONTACT_ID", nil)
	}

	result, err := h.contactFlow.GetContact(createRequestContext(c, "/api/v1/contacts/:id"), userID, contactID)
	if err != nil {
		return h.mapContactError(c, err, "Failed to get contact", "GET_CONTACT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Contact retrieved", result)
}

// CreateContact creates a new contact for the authenticated user
// @Summary Create Contact
// @Description Create a new contact owned by the authenticated user
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateContactRequest true "Contact data"
// @Success 201 {object} dto.APIResponse{data=dto.ContactDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts [post]
func (h *ContactHandler) CreateContact(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.contactFlow.CreateContact(createRequestContext(c, "/api/v1/contacts"), userID, &req)
	if err != nil {
		return h.mapContactError(c, err, "Failed to create contact", "CREATE_CONTACT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusCreated, "Contact created", result)
}

// UpdateContact updates a contact owned by the authenticated user
// @Summary Update Contact
// @Description Update one of the authenticated user's contacts
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Param request body dto.UpdateContactRequest true "Contact data"
// @Success 200 {object} dto.APIResponse{data=dto.ContactDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	contactID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", "INVALID_CONTACT_ID", nil)
	}

	var req dto.UpdateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.contactFlow.UpdateContact(createRequestContext(c, "/api/v1/contacts/:id"), userID, contactID, &req)
	if err != nil {
		return h.mapContactError(c, err, "Failed to update contact", "UPDATE_CONTACT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Contact updated", result)
}

// DeleteContact deletes a contact owned by the authenticated user
// @Summary Delete Contact
// @Description Delete one of the authenticated user's contacts
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contact ID"
// @Success 200 {object} dto.APIResponse "Contact deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	contactID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid contact ID", "INVALID_CONTACT_ID", nil)
	}

	if err := h.contactFlow.DeleteContact(createRequestContext(c, "/api/v1/contacts/:id"), userID, contactID); err != nil {
		return h.mapContactError(c, err, "Failed to delete contact", "DELETE_CONTACT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Contact deleted", nil)
}

// mapContactError maps shared contact business errors to API responses
func (h *ContactHandler) mapContactError(c fiber.Ctx, err error, genericMessage, genericCode string) error {
	if businessflow.IsContactNotFound(err) {
		return ErrorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
	}
	if businessflow.IsContactAccessDenied(err) {
		return ErrorResponse(c, fiber.StatusForbidden, "Contact access denied", "CONTACT_ACCESS_DENIED", nil)
	}
	if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Account is not available", "ACCOUNT_UNAVAILABLE", nil)
	}

	log.Println(genericMessage, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, genericMessage, genericCode, nil)
}
