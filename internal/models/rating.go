package models

import "time"

// Rating is a 1-5 star score, one per user per photo.
type Rating struct {
	ID        int       `json:"id"`
	PhotoID   int       `json:"photo_id"`
	UserID    int       `json:"user_id"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

type RatingRequest struct {
	Stars int `json:"stars"`
}

type RatingListResponse struct {
	Ratings []Rating `json:"ratings"`
	Average float64  `json:"average"`
}
