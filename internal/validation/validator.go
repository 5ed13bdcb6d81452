package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/pkg/util"
)

// TicketPayload is the raw client payload for ticket creation and partial
// update. Nil fields were absent from the request body.
type TicketPayload struct {
	CustomerName  *string
	CustomerEmail *string
	Subject       *string
	Description   *string
	SerialNumber  *string
	Category      *string
	Priority      *string
	Status        *string
}

// ResponsePayload is the raw client payload for adding a response.
type ResponsePayload struct {
	Author  *string
	Message *string
}

// NewTicket is a fully validated creation payload with defaults applied.
type NewTicket struct {
	CustomerName  string
	CustomerEmail string
	Subject       string
	Description   string
	SerialNumber  string
	Category      string
	Priority      string
	Status        domain.TicketStatus
}

// TicketPatch carries only the validated fields present in a partial update.
type TicketPatch struct {
	CustomerName  *string
	CustomerEmail *string
	Subject       *string
	Description   *string
	SerialNumber  *string
	Category      *string
	Priority      *string
	Status        *domain.TicketStatus
}

// Empty reports whether the patch carries no fields.
func (p *TicketPatch) Empty() bool {
	return p.CustomerName == nil && p.CustomerEmail == nil && p.Subject == nil &&
		p.Description == nil && p.SerialNumber == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil
}

// NewResponse is a validated response payload.
type NewResponse struct {
	Author  string
	Message string
}

// Validator enforces field-level rules before payloads reach the store.
type Validator struct{}

// NewValidator constructs the validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateNewTicket checks a creation payload, returning the first failing
// field as a validation error.
func (v *Validator) ValidateNewTicket(payload TicketPayload) (*NewTicket, error) {
	customerName, err := requiredField("customer_name", payload.CustomerName)
	if err != nil {
		return nil, err
	}
	customerEmail, err := requiredField("customer_email", payload.CustomerEmail)
	if err != nil {
		return nil, err
	}
	if err := validEmail(customerEmail); err != nil {
		return nil, err
	}
	subject, err := requiredField("subject", payload.Subject)
	if err != nil {
		return nil, err
	}
	description, err := requiredField("description", payload.Description)
	if err != nil {
		return nil, err
	}

	status := domain.TicketStatusOpen
	if payload.Status != nil {
		parsed, ok := domain.ParseTicketStatus(*payload.Status)
		if !ok {
			return nil, invalidStatus(*payload.Status)
		}
		status = parsed
	}

	return &NewTicket{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Subject:       subject,
		Description:   description,
		SerialNumber:  optionalField(payload.SerialNumber),
		Category:      optionalField(payload.Category),
		Priority:      optionalField(payload.Priority),
		Status:        status,
	}, nil
}

// ValidatePartialTicket checks an update payload. Every field is optional;
// present fields obey the same rules as on creation.
func (v *Validator) ValidatePartialTicket(payload TicketPayload) (*TicketPatch, error) {
	patch := &TicketPatch{}

	if payload.CustomerName != nil {
		value, err := requiredField("customer_name", payload.CustomerName)
		if err != nil {
			return nil, err
		}
		patch.CustomerName = &value
	}
	if payload.CustomerEmail != nil {
		value, err := requiredField("customer_email", payload.CustomerEmail)
		if err != nil {
			return nil, err
		}
		if err := validEmail(value); err != nil {
			return nil, err
		}
		patch.CustomerEmail = &value
	}
	if payload.Subject != nil {
		value, err := requiredField("subject", payload.Subject)
		if err != nil {
			return nil, err
		}
		patch.Subject = &value
	}
	if payload.Description != nil {
		value, err := requiredField("description", payload.Description)
		if err != nil {
			return nil, err
		}
		patch.Description = &value
	}
	if payload.SerialNumber != nil {
		value := strings.TrimSpace(*payload.SerialNumber)
		patch.SerialNumber = &value
	}
	if payload.Category != nil {
		value := strings.TrimSpace(*payload.Category)
		patch.Category = &value
	}
	if payload.Priority != nil {
		value := strings.TrimSpace(*payload.Priority)
		patch.Priority = &value
	}
	if payload.Status != nil {
		status, ok := domain.ParseTicketStatus(*payload.Status)
		if !ok {
			return nil, invalidStatus(*payload.Status)
		}
		patch.Status = &status
	}

	return patch, nil
}

// ValidateResponse checks a response payload.
func (v *Validator) ValidateResponse(payload ResponsePayload) (*NewResponse, error) {
	author, err := requiredField("author", payload.Author)
	if err != nil {
		return nil, err
	}
	message, err := requiredField("message", payload.Message)
	if err != nil {
		return nil, err
	}
	return &NewResponse{Author: author, Message: message}, nil
}

func requiredField(name string, value *string) (string, error) {
	if value == nil {
		return "", util.NewValidationError(fmt.Sprintf("%s is required", name))
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", util.NewValidationError(fmt.Sprintf("%s must be a non-empty string", name))
	}
	return trimmed, nil
}

func optionalField(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func validEmail(address string) error {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return util.NewValidationError("customer_email must be a valid email address")
	}
	return nil
}

func invalidStatus(raw string) error {
	return util.NewValidationError(fmt.Sprintf(
		"status must be one of open, in_progress, closed, escalated; got %q", strings.TrimSpace(raw)))
}
