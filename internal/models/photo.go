package models

import "time"

// Photo represents a user-uploaded photo
type Photo struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	ImageURL    string    `json:"image_url"`
	PublicID    string    `json:"-"`
	Description string    `json:"description"`
	QRURL       string    `json:"qr_url,omitempty"`
	Likes       int       `json:"likes"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PhotoUpdateRequest struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

type PhotoListResponse struct {
	Photos []Photo `json:"photos"`
}

// MaxTagsPerPhoto caps how many tags a photo can carry.
const MaxTagsPerPhoto = 5
