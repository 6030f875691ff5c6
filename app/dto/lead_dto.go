package dto

// LeadDTO is the full lead representation returned by the API
type LeadDTO struct {
	ID        uint     `json:"id"`
	UUID      string   `json:"uuid"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name,omitempty"`
	Campaigns []string `json:"campaigns"`
	EmailedAt string   `json:"emailed_at,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// CreateLeadRequest represents the lead creation request
type CreateLeadRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	FullName  string   `json:"full_name" validate:"omitempty,max=255"`
	Campaigns []string `json:"campaigns" validate:"omitempty,dive,min=1"`
}

// CreateLeadResponse represents the lead creation response
type CreateLeadResponse struct {
	Message string  `json:"message"`
	Lead    LeadDTO `json:"lead"`
}

// ImportLeadsRequest represents a batch lead import
type ImportLeadsRequest struct {
	Leads []CreateLeadRequest `json:"leads" validate:"required,min=1,dive"`
}

// ImportLeadsResponse represents the batch import response
type ImportLeadsResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// UpdateLeadRequest represents a partial lead update; nil fields keep their
// current values
type UpdateLeadRequest struct {
	UUID      string    `json:"-"`
	Email     *string   `json:"email" validate:"omitempty,email"`
	FullName  *string   `json:"full_name" validate:"omitempty,max=255"`
	Campaigns *[]string `json:"campaigns" validate:"omitempty,dive,min=1"`
}

// UpdateLeadResponse represents the lead update response
type UpdateLeadResponse struct {
	Message string  `json:"message"`
	Lead    LeadDTO `json:"lead"`
}

// ListLeadsRequest represents the lead list query
type ListLeadsRequest struct {
	Page     int    `json:"page" validate:"omitempty,gte=1"`
	PageSize int    `json:"page_size" validate:"omitempty,gte=1,lte=100"`
	Campaign string `json:"campaign"`
	Emailed  *bool  `json:"emailed"`
}

// ListLeadsResponse represents the lead list response
type ListLeadsResponse struct {
	Leads      []LeadDTO  `json:"leads"`
	Pagination Pagination `json:"pagination"`
}
