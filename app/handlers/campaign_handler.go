// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/mkarimzade/Simorgh/app/dto"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
)

// CampaignHandlerInterface defines the contract for campaign handlers
type CampaignHandlerInterface interface {
	CreateCampaign(c fiber.Ctx) error
	UpdateCampaign(c fiber.Ctx) error
	GetCampaign(c fiber.Ctx) error
	ListCampaigns(c fiber.Ctx) error
	AddSenderAccount(c fiber.Ctx) error
	ActivateCampaign(c fiber.Ctx) error
	DeactivateCampaign(c fiber.Ctx) error
	DeleteCampaign(c fiber.Ctx) error
	GetCampaignStats(c fiber.Ctx) error
}

// CampaignHandler handles campaign-related HTTP requests
type CampaignHandler struct {
	campaignFlow businessflow.CampaignFlow
	validator    *validator.Validate
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignFlow businessflow.CampaignFlow) *CampaignHandler {
	return &CampaignHandler{
		campaignFlow: campaignFlow,
		validator:    validator.New(),
	}
}

// CreateCampaign handles the campaign creation process
func (h *CampaignHandler) CreateCampaign(c fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.campaignFlow.CreateCampaign(createRequestContext(c, "/api/v1/campaigns"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign name is already taken", "CAMPAIGN_NAME_TAKEN", nil)
		}
		if businessflow.IsCampaignNameRequired(err) || businessflow.IsScheduleTimeInvalid(err) ||
			businessflow.IsScheduleWindowInverted(err) || businessflow.IsScheduleDayInvalid(err) ||
			businessflow.IsScheduleTimezoneInvalid(err) || businessflow.IsAccountEmailRequired(err) ||
			businessflow.IsAccountDailyLimitInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Campaign creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign creation failed", "CAMPAIGN_CREATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result.Campaign)
}

// UpdateCampaign handles partial campaign updates
func (h *CampaignHandler) UpdateCampaign(c fiber.Ctx) error {
	var req dto.UpdateCampaignRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.campaignFlow.UpdateCampaign(createRequestContext(c, "/api/v1/campaigns/"+req.UUID), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign name is already taken", "CAMPAIGN_NAME_TAKEN", nil)
		}
		if businessflow.IsCampaignUpdateRequired(err) || businessflow.IsCampaignUUIDRequired(err) ||
			businessflow.IsScheduleTimeInvalid(err) || businessflow.IsScheduleWindowInverted(err) ||
			businessflow.IsScheduleDayInvalid(err) || businessflow.IsScheduleTimezoneInvalid(err) ||
			businessflow.IsAccountEmailRequired(err) || businessflow.IsAccountDailyLimitInvalid(err) ||
			businessflow.IsCampaignNameRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Campaign update failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign update failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result.Campaign)
}

// AddSenderAccount attaches one more sending identity to a campaign
func (h *CampaignHandler) AddSenderAccount(c fiber.Ctx) error {
	var req dto.AddSenderAccountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get(businessflow.RequestIDKey))

	result, err := h.campaignFlow.AddSenderAccount(createRequestContext(c, "/api/v1/campaigns/"+req.UUID+"/accounts"), &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsAccountEmailTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Sender account already exists on this campaign", "ACCOUNT_EMAIL_TAKEN", nil)
		}
		if businessflow.IsCampaignUUIDRequired(err) || businessflow.IsAccountEmailRequired(err) ||
			businessflow.IsAccountDailyLimitInvalid(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign validation failed", "CAMPAIGN_VALIDATION_FAILED", err.Error())
		}

		log.Println("Sender account addition failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Sender account addition failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result.Campaign)
}

// GetCampaign returns a single campaign
func (h *CampaignHandler) GetCampaign(c fiber.Ctx) error {
	uuid := c.Params("uuid")

	result, err := h.campaignFlow.GetCampaign(createRequestContext(c, "/api/v1/campaigns/"+uuid), uuid)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignUUIDRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "CAMPAIGN_UUID_REQUIRED", nil)
		}

		log.Println("Campaign lookup failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign lookup failed", "CAMPAIGN_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign retrieved successfully", result)
}

// ListCampaigns returns a page of campaigns
func (h *CampaignHandler) ListCampaigns(c fiber.Ctx) error {
	req := dto.ListCampaignsRequest{
		Page:     fiber.Query(c, "page", 0),
		PageSize: fiber.Query(c, "page_size", 0),
	}
	if c.Query("active") != "" {
		active := fiber.Query(c, "active", false)
		req.Active = &active
	}

	result, err := h.campaignFlow.ListCampaigns(createRequestContext(c, "/api/v1/campaigns"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", err.Error())
		}

		log.Println("Campaign list failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaigns retrieved successfully", result)
}

// ActivateCampaign makes a campaign eligible for dispatch
func (h *CampaignHandler) ActivateCampaign(c fiber.Ctx) error {
	return h.setActive(c, true)
}

// DeactivateCampaign removes a campaign from dispatch
func (h *CampaignHandler) DeactivateCampaign(c fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *CampaignHandler) setActive(c fiber.Ctx, active bool) error {
	uuid := c.Params("uuid")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.campaignFlow.SetCampaignActive(createRequestContext(c, "/api/v1/campaigns/"+uuid), uuid, active, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignUUIDRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "CAMPAIGN_UUID_REQUIRED", nil)
		}

		log.Println("Campaign state change failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign state change failed", "CAMPAIGN_UPDATE_FAILED", nil)
	}

	message := "Campaign deactivated"
	if active {
		message = "Campaign activated"
	}
	return successResponse(c, fiber.StatusOK, message, result)
}

// DeleteCampaign removes a campaign
func (h *CampaignHandler) DeleteCampaign(c fiber.Ctx) error {
	uuid := c.Params("uuid")
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	err := h.campaignFlow.DeleteCampaign(createRequestContext(c, "/api/v1/campaigns/"+uuid), uuid, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignUUIDRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign UUID is required", "CAMPAIGN_UUID_REQUIRED", nil)
		}

		log.Println("Campaign deletion failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Campaign deletion failed", "CAMPAIGN_DELETE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign deleted successfully", nil)
}

// GetCampaignStats reports lead progress for a campaign
func (h *CampaignHandler) GetCampaignStats(c fiber.Ctx) error {
	uuid := c.Params("uuid")

	result, err := h.campaignFlow.GetCampaignStats(createRequestContext(c, "/api/v1/campaigns/"+uuid+"/stats"), uuid)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}

		log.Println("Campaign stats failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to compute campaign stats", "CAMPAIGN_STATS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Campaign stats retrieved successfully", result)
}
