package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JackLockhart04/course-genius/internal/db"
)

// CourseTotals are the pre-aggregated grade figures for one course, read from
// the course_grade_totals view over graded assignments.
type CourseTotals struct {
	EarnedPoints    float64
	CompletedWeight float64
}

// StatsRepository reads derived grade aggregates. Read-only; nothing here is
// ever cached or written back.
type StatsRepository struct {
	db *db.UserDB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *db.UserDB) *StatsRepository {
	return &StatsRepository{
		db: db,
	}
}

// GetCourseTotals retrieves the earned points and completed weight for a
// course. A course with no graded assignments has no view row; both figures
// are zero in that case.
func (r *StatsRepository) GetCourseTotals(ctx context.Context, ownerID, courseID uuid.UUID) (CourseTotals, error) {
	query := `
		SELECT earned_points, completed_weight
		FROM course_grade_totals
		WHERE course_id = $1 AND owner_id = $2
	`

	var totals CourseTotals
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, courseID, ownerID).Scan(
			&totals.EarnedPoints,
			&totals.CompletedWeight,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CourseTotals{}, nil
		}
		return CourseTotals{}, fmt.Errorf("error retrieving course totals: %w", err)
	}

	return totals, nil
}
