package models

import "time"

// URL is a stored slug-to-target mapping owned by a user.
// Records are immutable once created.
type URL struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShortenResponse is the success payload of POST /shorten.
type ShortenResponse struct {
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

// FormResponse is the 400 payload of the form handlers. Failed field values
// are echoed back in Fields so the form can be re-rendered with prior input;
// passwords are never echoed.
type FormResponse struct {
	FormError   string            `json:"formError,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

const (
	StorageTypeUnknown = iota
	StorageTypePostgresql
	StorageTypeFile
	StorageTypeMemory
)
