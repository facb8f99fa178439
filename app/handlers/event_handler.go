package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/app/middleware"
	businessflow "github.com/mnemosyne-app/mnemosyne/business_flow"
)

// EventHandlerInterface defines the contract for event handlers
type EventHandlerInterface interface {
	ListEvents(c fiber.Ctx) error
	GetEvent(c fiber.Ctx) error
	CreateEvent(c fiber.Ctx) error
	UpdateEvent(c fiber.Ctx) error
	DeleteEvent(c fiber.Ctx) error
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventFlow businessflow.EventFlow
	validator *validator.Validate
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventFlow businessflow.EventFlow) *EventHandler {
	return &EventHandler{
		eventFlow: eventFlow,
		validator: validator.New(),
	}
}

// ListEvents returns a page of the authenticated user's events
// @Summary List Events
// @Description List the authenticated user's events with optional category, tag, and date filters
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param category_id query int false "Filter by category"
// @Param tag_ids query string false "Comma-separated tag IDs"
// @Param hide_past query bool false "Hide events before today"
// @Success 200 {object} dto.APIResponse{data=dto.ListEventsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid parameters"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/events [get]
func (h *EventHandler) ListEvents(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := &dto.ListEventsRequest{
		UserID: userID,
		Page:   parsePageParam(c),
	}

	if v, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil && v > 0 {
		categoryID := uint(v)
		req.CategoryID = &categoryID
	}

	if raw := c.Query("tag_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil && v > 0 {
				req.TagIDs = append(req.TagIDs, uint(v))
			}
		}
	}

	req.HidePastEvents = c.Query("hide_past_events") == "true" || c.Query("hide_past_events") == "1"

	result, err := h.eventFlow.ListEvents(createRequestContext(c, "/api/v1/events"), req)
	if err != nil {
		if businessflow.IsInvalidPage(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid page", "INVALID_PAGE", nil)
		}
		if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
			return ErrorResponse(c, fiber.StatusUnauthorized, "Account is not available", "ACCOUNT_UNAVAILABLE", nil)
		}

		log.Println("List events failed", err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list events", "LIST_EVENTS_FAILED", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Events retrieved", result)
}

// GetEvent returns a single event owned by the authenticated user
// @Summary Get Event
// @Description Get one of the authenticated user's events by ID
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDTO}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) GetEvent(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", "INVALID_EVENT_ID", nil)
	}

	result, err := h.eventFlow.GetEvent(createRequestContext(c, "/api/v1/events/:id"), userID, eventID)
	if err != nil {
		return h.mapEventError(c, err, "Failed to get event", "GET_EVENT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Event retrieved", result)
}

// CreateEvent creates a new event for the authenticated user
// @Summary Create Event
// @Description Create a new event owned by the authenticated user
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event data"
// @Success 201 {object} dto.APIResponse{data=dto.EventDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/events [post]
func (h *EventHandler) CreateEvent(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.eventFlow.CreateEvent(createRequestContext(c, "/api/v1/events"), userID, &req)
	if err != nil {
		if businessflow.IsCategoryNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Category not found", "CATEGORY_NOT_FOUND", nil)
		}
		return h.mapEventError(c, err, "Failed to create event", "CREATE_EVENT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusCreated, "Event created", result)
}

// UpdateEvent updates an event owned by the authenticated user
// @Summary Update Event
// @Description Update one of the authenticated user's events
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body dto.UpdateEventRequest true "Event data"
// @Success 200 {object} dto.APIResponse{data=dto.EventDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/events/{id} [put]
func (h *EventHandler) UpdateEvent(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", "INVALID_EVENT_ID", nil)
	}

	var req dto.UpdateEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if ok, resp := validateRequest(c, h.validator, &req); !ok {
		return resp
	}

	result, err := h.eventFlow.UpdateEvent(createRequestContext(c, "/api/v1/events/:id"), userID, eventID, &req)
	if err != nil {
		if businessflow.IsCategoryNotFound(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Category not found", "CATEGORY_NOT_FOUND", nil)
		}
		return h.mapEventError(c, err, "Failed to update event", "UPDATE_EVENT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Event updated", result)
}

// DeleteEvent deletes an event owned by the authenticated user
// @Summary Delete Event
// @Description Delete one of the authenticated user's events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse "Event deleted"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not the author"
// @Failure 404 {object} dto.APIResponse "Event not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid event ID", "INVALID_EVENT_ID", nil)
	}

	if err := h.eventFlow.DeleteEvent(createRequestContext(c, "/api/v1/events/:id"), userID, eventID); err != nil {
		return h.mapEventError(c, err, "Failed to delete event", "DELETE_EVENT_FAILED")
	}

	return SuccessResponse(c, fiber.StatusOK, "Event deleted", nil)
}

// mapEventError maps shared event business errors to API responses
func (h *EventHandler) mapEventError(c fiber.Ctx, err error, genericMessage, genericCode string) error {
	var bizErr *businessflow.BusinessError
	if errors.As(err, &bizErr) && bizErr.Code == "INVALID_DATE" {
		return ErrorResponse(c, fiber.StatusBadRequest, bizErr.Message, bizErr.Code, nil)
	}
	if businessflow.IsEventNotFound(err) {
		return ErrorResponse(c, fiber.StatusNotFound, "Event not found", "EVENT_NOT_FOUND", nil)
	}
	if businessflow.IsEventAccessDenied(err) {
		return ErrorResponse(c, fiber.StatusForbidden, "Event access denied", "EVENT_ACCESS_DENIED", nil)
	}
	if businessflow.IsUserNotFound(err) || businessflow.IsAccountInactive(err) {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Account is not available", "ACCOUNT_UNAVAILABLE", nil)
	}

	log.Println(genericMessage, err)
	return ErrorResponse(c, fiber.StatusInternalServerError, genericMessage, genericCode, nil)
}
