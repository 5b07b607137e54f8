package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// DefaultSource khi client không gửi source
const DefaultSource = "website"

type Subscriber struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListFilter struct {
	Subscribed *bool
	Source     string
	Search     string
	Limit      int
	Offset     int
}

// SourceCount - số subscriber đang active theo source (dashboard)
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// ========================================
// REQUEST DTOs
// ========================================

// SubscribeRequest - POST /newsletter/subscribe
type SubscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

func (r SubscribeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			validation.Length(3, 254),
			is.EmailFormat.Error("email must be a valid email address"),
		),
		validation.Field(&r.Source, validation.Length(0, 50)),
	)
}

// Normalize: email trim + lowercase, source mặc định "website"
func (r SubscribeRequest) Normalize() SubscribeRequest {
	r.Email = NormalizeEmail(r.Email)
	r.Source = strings.ToLower(strings.TrimSpace(r.Source))
	if r.Source == "" {
		r.Source = DefaultSource
	}
	return r
}

// UnsubscribeRequest - POST /newsletter/unsubscribe
type UnsubscribeRequest struct {
	Email string `json:"email"`
}

func (r UnsubscribeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("email must be a valid email address"),
		),
	)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
