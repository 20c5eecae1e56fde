package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/pkg/nullable"
)

// Course represents a course tracked by its owner. OwnerID is stamped
// server-side at creation and never updated afterwards.
type Course struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OwnerID  uuid.UUID `json:"owner_id" db:"owner_id"`
	Name     string    `json:"name" db:"name"`
	Credits  float64   `json:"credits" db:"credits"`
	Semester *string   `json:"semester" db:"semester"` // Nullable
	Color    *string   `json:"color" db:"color"`       // Nullable

	// Manual override grades, reported alongside the computed average and
	// never blended into it.
	FinalLetterGrade *string  `json:"final_letter_grade" db:"final_letter_grade"`
	FinalGradePoints *float64 `json:"final_grade_points" db:"final_grade_points"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CourseChanges is the sparse field set of a course update. Absent fields are
// left untouched; fields present in the body, null included, are applied.
type CourseChanges struct {
	Name             nullable.Field[string]  `json:"name"`
	Credits          nullable.Field[float64] `json:"credits"`
	Semester         nullable.Field[string]  `json:"semester"`
	Color            nullable.Field[string]  `json:"color"`
	FinalLetterGrade nullable.Field[string]  `json:"final_letter_grade"`
	FinalGradePoints nullable.Field[float64] `json:"final_grade_points"`
}

// Empty reports whether no field appeared in the body at all.
func (c *CourseChanges) Empty() bool {
	return !c.Name.Set && !c.Credits.Set && !c.Semester.Set &&
		!c.Color.Set && !c.FinalLetterGrade.Set && !c.FinalGradePoints.Set
}

// CourseStats is the derived grade summary for one course. It is recomputed
// on every read and never stored.
type CourseStats struct {
	CurrentAverage   float64  `json:"current_average"`
	CompletedWeight  float64  `json:"completed_weight"`
	FinalLetterGrade *string  `json:"final_letter_grade"`
	FinalGradePoints *float64 `json:"final_grade_points"`
}
