// Package enquiry defines customer enquiry submissions.
package enquiry

import (
	"context"
	"time"
)

// Enquiry is a free-form customer message submitted from the shop front.
type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists enquiries.
type Repository interface {
	Create(ctx context.Context, e *Enquiry) error
}
