package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/db"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
	"github.com/JackLockhart04/course-genius/internal/pkg/dberrors"
)

const assignmentColumns = `id, owner_id, course_id, title, weight, max_score, score, due_date, created_at`

// AssignmentRepository handles database operations for assignments. Every
// operation filters by the parent course id on top of id and owner, so an
// assignment is only reachable through its declared course.
type AssignmentRepository struct {
	db *db.UserDB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *db.UserDB) *AssignmentRepository {
	return &AssignmentRepository{
		db: db,
	}
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	var assignment models.Assignment
	err := row.Scan(
		&assignment.ID,
		&assignment.OwnerID,
		&assignment.CourseID,
		&assignment.Title,
		&assignment.Weight,
		&assignment.MaxScore,
		&assignment.Score,
		&assignment.DueDate,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// courseOwned checks, inside the identity transaction, that the parent course
// exists and belongs to the caller.
func courseOwned(ctx context.Context, tx pgx.Tx, ownerID, courseID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1 AND owner_id = $2)`,
		courseID, ownerID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking course ownership: %w", err)
	}
	if !exists {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// ListByCourse retrieves a course's assignments in insertion order. The
// parent course must exist and belong to the caller.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, ownerID, courseID uuid.UUID) ([]models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE course_id = $1 AND owner_id = $2
		ORDER BY created_at
	`

	assignments := make([]models.Assignment, 0)
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		if err := courseOwned(ctx, tx, ownerID, courseID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, query, courseID, ownerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			assignment, err := scanAssignment(rows)
			if err != nil {
				return err
			}
			assignments = append(assignments, *assignment)
		}
		return rows.Err()
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	return assignments, nil
}

// GetByID retrieves one assignment filtered by id, parent course, and owner.
func (r *AssignmentRepository) GetByID(ctx context.Context, ownerID, courseID, id uuid.UUID) (*models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE id = $1 AND course_id = $2 AND owner_id = $3
	`

	var assignment *models.Assignment
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		assignment, err = scanAssignment(tx.QueryRow(ctx, query, id, courseID, ownerID))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}

	return assignment, nil
}

// Create inserts a new assignment under its parent course and fills the
// generated id and timestamp. A missing or foreign parent course is
// ErrCourseNotFound.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (owner_id, course_id, title, weight, max_score, score, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.AsIdentity(ctx, assignment.OwnerID, func(ctx context.Context, tx pgx.Tx) error {
		if err := courseOwned(ctx, tx, assignment.OwnerID, assignment.CourseID); err != nil {
			return err
		}

		return tx.QueryRow(ctx, query,
			assignment.OwnerID, assignment.CourseID, assignment.Title,
			assignment.Weight, assignment.MaxScore, assignment.Score, assignment.DueDate,
		).Scan(&assignment.ID, &assignment.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		// The ownership check can race a concurrent course deletion; the FK
		// then fires inside the same transaction.
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating assignment: %w", err)
	}

	return nil
}

// Update applies the sparse field set to an assignment filtered by id, parent
// course, and owner, returning the updated row.
func (r *AssignmentRepository) Update(ctx context.Context, ownerID, courseID, id uuid.UUID, changes *models.AssignmentChanges) (*models.Assignment, error) {
	if changes.Empty() {
		// No-op update: still confirm the row exists and return it unchanged.
		return r.GetByID(ctx, ownerID, courseID, id)
	}

	set, args := buildSet(
		change{"title", changes.Title},
		change{"weight", changes.Weight},
		change{"max_score", changes.MaxScore},
		change{"score", changes.Score},
		change{"due_date", changes.DueDate},
	)

	query := fmt.Sprintf(`
		UPDATE assignments
		SET %s
		WHERE id = $%d AND course_id = $%d AND owner_id = $%d
		RETURNING `+assignmentColumns,
		set, len(args)+1, len(args)+2, len(args)+3)
	args = append(args, id, courseID, ownerID)

	var assignment *models.Assignment
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		assignment, err = scanAssignment(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error updating assignment: %w", err)
	}

	return assignment, nil
}

// Delete removes an assignment filtered by id, parent course, and owner.
func (r *AssignmentRepository) Delete(ctx context.Context, ownerID, courseID, id uuid.UUID) error {
	query := `DELETE FROM assignments WHERE id = $1 AND course_id = $2 AND owner_id = $3`

	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, query, id, courseID, ownerID)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAssignmentNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAssignmentNotFound) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error deleting assignment: %w", err)
	}

	return nil
}
