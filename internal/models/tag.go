package models

import "time"

type Tag struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type TagRequest struct {
	Title string `json:"title"`
}
