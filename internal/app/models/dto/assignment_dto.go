package dto

import "time"

// CreateAssignmentRequest represents assignment creation data. The parent
// course comes from the URL, never from the body.
type CreateAssignmentRequest struct {
	Title    string     `json:"title" binding:"required"`
	Weight   *float64   `json:"weight" binding:"omitempty,gte=0,lte=100"`
	MaxScore *float64   `json:"max_score" binding:"omitempty,gt=0"`
	Score    *float64   `json:"score" binding:"omitempty,gte=0"`
	DueDate  *time.Time `json:"due_date"`
}
