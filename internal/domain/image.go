package domain

import "time"

// Image is a gallery entry. URL is resolved by the server on upload.
type Image struct {
	ImageCode   string    `json:"imageCode"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
