package models

import "time"

// Suggestion statuses. New submissions always start out pending.
const (
	SuggestionStatusPending  = "pending"
	SuggestionStatusApproved = "approved"
	SuggestionStatusRejected = "rejected"
)

// Suggestion is a user-submitted movie suggestion collected from the catalog form.
type Suggestion struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"movieTitle" validate:"required,min=1,max=200"`
	ReleaseYear int       `json:"releaseYear" validate:"required,gte=1888,lte=2100"`
	Genre       string    `json:"movieGenre" validate:"required"`
	Director    string    `json:"directorName,omitempty" validate:"omitempty,max=120"`
	Name        string    `json:"suggesterName" validate:"required,min=2,max=120"`
	Email       string    `json:"suggesterEmail" validate:"required,email"`
	Description string    `json:"movieDescription" validate:"required,min=10,max=2000"`
	Notes       string    `json:"movieNotes,omitempty" validate:"omitempty,max=2000"`
	SubmittedAt time.Time `json:"submittedAt,omitempty"`
	Status      string    `json:"status,omitempty"`
}
