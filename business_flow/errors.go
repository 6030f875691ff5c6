// Package businessflow contains the core business logic and use cases for campaign and lead workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Campaign-related errors
	ErrCampaignNotFound         = errors.New("campaign not found")
	ErrCampaignNameRequired     = errors.New("campaign name is required")
	ErrCampaignNameTaken        = errors.New("campaign name is already taken")
	ErrCampaignUUIDRequired     = errors.New("campaign UUID is required")
	ErrCampaignUpdateRequired   = errors.New("at least one field must be provided for update")
	ErrScheduleTimeInvalid      = errors.New("schedule time must be in HH:MM form")
	ErrScheduleWindowInverted   = errors.New("schedule start time is after end time")
	ErrScheduleDayInvalid       = errors.New("schedule day is not a weekday name")
	ErrScheduleTimezoneInvalid  = errors.New("schedule timezone is not a known location")
	ErrAccountEmailRequired     = errors.New("sender account email is required")
	ErrAccountEmailTaken        = errors.New("sender account email is already on the campaign")
	ErrAccountDailyLimitInvalid = errors.New("sender account daily limit cannot be negative")

	// Lead-related errors
	ErrLeadNotFound      = errors.New("lead not found")
	ErrLeadEmailRequired = errors.New("lead email is required")
	ErrLeadUUIDRequired  = errors.New("lead UUID is required")
	ErrNoLeadsToImport   = errors.New("no leads to import")

	// Dispatch-related errors
	ErrInconsistencyNotFound = errors.New("dispatch inconsistency not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNameRequired(err error) bool {
	return errors.Is(err, ErrCampaignNameRequired)
}

func IsCampaignNameTaken(err error) bool {
	return errors.Is(err, ErrCampaignNameTaken)
}

func IsCampaignUUIDRequired(err error) bool {
	return errors.Is(err, ErrCampaignUUIDRequired)
}

func IsCampaignUpdateRequired(err error) bool {
	return errors.Is(err, ErrCampaignUpdateRequired)
}

func IsScheduleTimeInvalid(err error) bool {
	return errors.Is(err, ErrScheduleTimeInvalid)
}

func IsScheduleWindowInverted(err error) bool {
	return errors.Is(err, ErrScheduleWindowInverted)
}

func IsScheduleDayInvalid(err error) bool {
	return errors.Is(err, ErrScheduleDayInvalid)
}

func IsScheduleTimezoneInvalid(err error) bool {
	return errors.Is(err, ErrScheduleTimezoneInvalid)
}

func IsAccountEmailRequired(err error) bool {
	return errors.Is(err, ErrAccountEmailRequired)
}

func IsAccountEmailTaken(err error) bool {
	return errors.Is(err, ErrAccountEmailTaken)
}

func IsAccountDailyLimitInvalid(err error) bool {
	return errors.Is(err, ErrAccountDailyLimitInvalid)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsLeadEmailRequired(err error) bool {
	return errors.Is(err, ErrLeadEmailRequired)
}

func IsLeadUUIDRequired(err error) bool {
	return errors.Is(err, ErrLeadUUIDRequired)
}

func IsNoLeadsToImport(err error) bool {
	return errors.Is(err, ErrNoLeadsToImport)
}


func IsInconsistencyNotFound(err error) bool {
	return errors.Is(err, ErrInconsistencyNotFound)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

