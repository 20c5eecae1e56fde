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
)

const courseColumns = `id, owner_id, name, credits, semester, color, final_letter_grade, final_grade_points, created_at`

// CourseRepository handles database operations for courses. Every statement
// runs under the caller's identity so the row-level-security policies apply;
// the WHERE owner_id clauses are deliberate redundancy on top of them.
type CourseRepository struct {
	db *db.UserDB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *db.UserDB) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.OwnerID,
		&course.Name,
		&course.Credits,
		&course.Semester,
		&course.Color,
		&course.FinalLetterGrade,
		&course.FinalGradePoints,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListByOwner retrieves all courses of an owner in insertion order. An owner
// with no courses gets an empty slice, not an error.
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE owner_id = $1
		ORDER BY created_at
	`

	courses := make([]models.Course, 0)
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, ownerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			course, err := scanCourse(rows)
			if err != nil {
				return err
			}
			courses = append(courses, *course)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	return courses, nil
}

// GetByID retrieves one course filtered by id and owner. Zero matching rows,
// whether the course is absent or owned by someone else, is ErrCourseNotFound.
func (r *CourseRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id = $1 AND owner_id = $2
	`

	var course *models.Course
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		course, err = scanCourse(tx.QueryRow(ctx, query, id, ownerID))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// Create inserts a new course and fills the generated id and timestamp.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (owner_id, name, credits, semester, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.AsIdentity(ctx, course.OwnerID, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, query,
			course.OwnerID, course.Name, course.Credits, course.Semester, course.Color,
		).Scan(&course.ID, &course.CreatedAt)
	})
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// Update applies the sparse field set to a course filtered by id and owner
// and returns the updated row. Fields absent from changes stay untouched;
// fields present as null are written as NULL.
func (r *CourseRepository) Update(ctx context.Context, ownerID, id uuid.UUID, changes *models.CourseChanges) (*models.Course, error) {
	if changes.Empty() {
		// No-op update: still confirm the row exists and return it unchanged.
		return r.GetByID(ctx, ownerID, id)
	}

	set, args := buildSet(
		change{"name", changes.Name},
		change{"credits", changes.Credits},
		change{"semester", changes.Semester},
		change{"color", changes.Color},
		change{"final_letter_grade", changes.FinalLetterGrade},
		change{"final_grade_points", changes.FinalGradePoints},
	)

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING `+courseColumns,
		set, len(args)+1, len(args)+2)
	args = append(args, id, ownerID)

	var course *models.Course
	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		course, err = scanCourse(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	return course, nil
}

// Delete removes a course filtered by id and owner. Zero affected rows is
// ErrCourseNotFound.
func (r *CourseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM courses WHERE id = $1 AND owner_id = $2`

	err := r.db.AsIdentity(ctx, ownerID, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, query, id, ownerID)
		if err != nil {
			return err
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}

	return nil
}
