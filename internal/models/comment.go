package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	PhotoID   int       `json:"photo_id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentRequest struct {
	Text string `json:"text"`
}
