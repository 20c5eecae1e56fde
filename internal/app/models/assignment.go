package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/pkg/nullable"
)

// Assignment represents a graded (or not yet graded) piece of work inside a
// course. OwnerID and CourseID are fixed at creation; an assignment is only
// ever visible in the context of its declared parent course.
type Assignment struct {
	ID       uuid.UUID `json:"id" db:"id"`
	OwnerID  uuid.UUID `json:"owner_id" db:"owner_id"`
	CourseID uuid.UUID `json:"course_id" db:"course_id"`
	Title    string    `json:"title" db:"title"`

	// Weight is the assignment's relative contribution to the course grade.
	Weight   float64 `json:"weight" db:"weight"`
	MaxScore float64 `json:"max_score" db:"max_score"`
	// Score stays null until the assignment is graded.
	Score *float64 `json:"score" db:"score"`

	DueDate   *time.Time `json:"due_date" db:"due_date"` // Nullable
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Graded reports whether a score has been recorded.
func (a *Assignment) Graded() bool {
	return a.Score != nil
}

// AssignmentChanges is the sparse field set of an assignment update. Setting
// score to null un-grades the assignment; omitting it leaves the grade alone.
type AssignmentChanges struct {
	Title    nullable.Field[string]    `json:"title"`
	Weight   nullable.Field[float64]   `json:"weight"`
	MaxScore nullable.Field[float64]   `json:"max_score"`
	Score    nullable.Field[float64]   `json:"score"`
	DueDate  nullable.Field[time.Time] `json:"due_date"`
}

// Empty reports whether no field appeared in the body at all.
func (c *AssignmentChanges) Empty() bool {
	return !c.Title.Set && !c.Weight.Set && !c.MaxScore.Set &&
		!c.Score.Set && !c.DueDate.Set
}
