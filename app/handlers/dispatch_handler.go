// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/mkarimzade/Simorgh/app/dto"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
)

// DispatchHandlerInterface defines the contract for dispatch handlers
type DispatchHandlerInterface interface {
	TriggerDispatch(c fiber.Ctx) error
	ListSentEmails(c fiber.Ctx) error
	ListInconsistencies(c fiber.Ctx) error
	ResolveInconsistency(c fiber.Ctx) error
}

// DispatchHandler handles dispatch-related HTTP requests
type DispatchHandler struct {
	dispatchFlow businessflow.DispatchFlow
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(dispatchFlow businessflow.DispatchFlow) *DispatchHandler {
	return &DispatchHandler{dispatchFlow: dispatchFlow}
}

// TriggerDispatch runs one dispatch tick immediately
func (h *DispatchHandler) TriggerDispatch(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.dispatchFlow.TriggerDispatch(createRequestContext(c, "/api/v1/dispatch/trigger"), metadata)
	if err != nil {
		log.Println("Manual dispatch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Dispatch trigger failed", "DISPATCH_TRIGGER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Dispatch tick executed", result)
}

// ListSentEmails returns a page of the dispatch audit trail
func (h *DispatchHandler) ListSentEmails(c fiber.Ctx) error {
	req := dto.ListSentEmailsRequest{
		Page:         fiber.Query(c, "page", 0),
		PageSize:     fiber.Query(c, "page_size", 0),
		CampaignUUID: c.Query("campaign_uuid"),
	}

	result, err := h.dispatchFlow.ListSentEmails(createRequestContext(c, "/api/v1/dispatch/sent"), &req)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", err.Error())
		}

		log.Println("Sent email list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list sent emails", "SENT_EMAIL_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Sent emails retrieved successfully", result)
}

// ListInconsistencies returns recorded commit failures
func (h *DispatchHandler) ListInconsistencies(c fiber.Ctx) error {
	req := dto.ListInconsistenciesRequest{
		Page:     fiber.Query(c, "page", 0),
		PageSize: fiber.Query(c, "page_size", 0),
		All:      fiber.Query(c, "all", false),
	}

	result, err := h.dispatchFlow.ListInconsistencies(createRequestContext(c, "/api/v1/dispatch/inconsistencies"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", err.Error())
		}

		log.Println("Inconsistency list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list inconsistencies", "INCONSISTENCY_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Inconsistencies retrieved successfully", result)
}

// ResolveInconsistency marks a recorded commit failure as handled
func (h *DispatchHandler) ResolveInconsistency(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid inconsistency ID", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.dispatchFlow.ResolveInconsistency(createRequestContext(c, "/api/v1/dispatch/inconsistencies"), uint(id), metadata)
	if err != nil {
		if businessflow.IsInconsistencyNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Inconsistency not found", "INCONSISTENCY_NOT_FOUND", nil)
		}

		log.Println("Inconsistency resolve failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to resolve inconsistency", "INCONSISTENCY_RESOLVE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
