package model

import "time"

type Reward struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PointsRequired int       `json:"points_required"`
	Description    string    `json:"description"`
	Stock          int       `json:"stock"`
	CreatedAt      time.Time `json:"created_at"`
}
