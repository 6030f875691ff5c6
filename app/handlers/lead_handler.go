// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mkarimzade/Simorgh/app/dto"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
)

// LeadHandlerInterface defines the contract for lead handlers
type LeadHandlerInterface interface {
	CreateLead(c fiber.Ctx) error
	ImportLeads(c fiber.Ctx) error
	UpdateLead(c fiber.Ctx) error
	GetLead(c fiber.Ctx) error
	ListLeads(c fiber.Ctx) error
	DeleteLead(c fiber.Ctx) error
}

// LeadHandler handles lead-related HTTP requests
type LeadHandler struct {
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadFlow businessflow.LeadFlow) *LeadHandler {
	return &LeadHandler{
		leadFlow:  leadFlow,
		validator: validator.New(),
	}
}

// CreateLead stores a single lead
func (h *LeadHandler) CreateLead(c fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.leadFlow.CreateLead(createRequestContext(c, "/api/v1/leads"), &req, metadata)
	if err != nil {
		if businessflow.IsLeadEmailRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead email is required", "LEAD_VALIDATION_FAILED", nil)
		}

		log.Println("Lead creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Lead creation failed", "LEAD_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result.Lead)
}

// ImportLeads stores a batch of leads
func (h *LeadHandler) ImportLeads(c fiber.Ctx) error {
	var req dto.ImportLeadsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.leadFlow.ImportLeads(createRequestContext(c, "/api/v1/leads/import"), &req, metadata)
	if err != nil {
		if businessflow.IsNoLeadsToImport(err) || businessflow.IsLeadEmailRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead import validation failed", "LEAD_VALIDATION_FAILED", err.Error())
		}

		log.Println("Lead import failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Lead import failed", "LEAD_IMPORT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateLead applies a partial update to a lead
func (h *LeadHandler) UpdateLead(c fiber.Ctx) error {
	var req dto.UpdateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.leadFlow.UpdateLead(createRequestContext(c, "/api/v1/leads/"+req.UUID), &req, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsLeadUUIDRequired(err) || businessflow.IsLeadEmailRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead validation failed", "LEAD_VALIDATION_FAILED", err.Error())
		}

		log.Println("Lead update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Lead update failed", "LEAD_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result.Lead)
}

// GetLead returns a single lead
func (h *LeadHandler) GetLead(c fiber.Ctx) error {
	uuid := c.Params("uuid")

	result, err := h.leadFlow.GetLead(createRequestContext(c, "/api/v1/leads/"+uuid), uuid)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsLeadUUIDRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "LEAD_UUID_REQUIRED", nil)
		}

		log.Println("Lead lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Lead lookup failed", "LEAD_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Lead retrieved successfully", result)
}

// ListLeads returns a page of leads
func (h *LeadHandler) ListLeads(c fiber.Ctx) error {
	req := dto.ListLeadsRequest{
		Page:     fiber.Query(c, "page", 0),
		PageSize: fiber.Query(c, "page_size", 0),
		Campaign: c.Query("campaign"),
	}
	if c.Query("emailed") != "" {
		emailed := fiber.Query(c, "emailed", false)
		req.Emailed = &emailed
	}

	result, err := h.leadFlow.ListLeads(createRequestContext(c, "/api/v1/leads"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", err.Error())
		}

		log.Println("Lead list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", "LEAD_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Leads retrieved successfully", result)
}

// DeleteLead removes a lead
func (h *LeadHandler) DeleteLead(c fiber.Ctx) error {
	uuid := c.Params("uuid")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	err := h.leadFlow.DeleteLead(createRequestContext(c, "/api/v1/leads/"+uuid), uuid, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsLeadUUIDRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Lead UUID is required", "LEAD_UUID_REQUIRED", nil)
		}

		log.Println("Lead deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Lead deletion failed", "LEAD_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Lead deleted successfully", nil)
}
