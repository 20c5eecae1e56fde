package services

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/app/repositories"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
)

const defaultCredits = 3.0

// CourseStore is the data access the course service needs.
type CourseStore interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Course, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, ownerID, id uuid.UUID, changes *models.CourseChanges) (*models.Course, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// StatsStore reads the pre-aggregated grade totals.
type StatsStore interface {
	GetCourseTotals(ctx context.Context, ownerID, courseID uuid.UUID) (repositories.CourseTotals, error)
}

// CourseService handles course-related operations
type CourseService struct {
	courseRepo CourseStore
	statsRepo  StatsStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo CourseStore, statsRepo StatsStore) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		statsRepo:  statsRepo,
	}
}

// ListCourses retrieves the caller's courses in insertion order.
func (s *CourseService) ListCourses(ctx context.Context, ownerID uuid.UUID) ([]models.Course, error) {
	return s.courseRepo.ListByOwner(ctx, ownerID)
}

// GetCourse retrieves one of the caller's courses by id.
func (s *CourseService) GetCourse(ctx context.Context, ownerID, id uuid.UUID) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, ownerID, id)
}

// CreateCourse creates a course owned by the caller. The owner id always
// comes from the verified identity, never from the request body.
func (s *CourseService) CreateCourse(ctx context.Context, ownerID uuid.UUID, req *dto.CreateCourseRequest) (*models.Course, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("course name cannot be empty")
	}

	credits := defaultCredits
	if req.Credits != nil {
		if *req.Credits <= 0 {
			return nil, apperrors.NewValidationError("credits must be greater than 0")
		}
		credits = *req.Credits
	}

	course := &models.Course{
		OwnerID:  ownerID,
		Name:     req.Name,
		Credits:  credits,
		Semester: req.Semester,
		Color:    req.Color,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// UpdateCourse applies a sparse field set to one of the caller's courses. An
// empty field set is a valid no-op returning the unchanged row.
func (s *CourseService) UpdateCourse(ctx context.Context, ownerID, id uuid.UUID, changes *models.CourseChanges) (*models.Course, error) {
	if err := validateCourseChanges(changes); err != nil {
		return nil, err
	}
	return s.courseRepo.Update(ctx, ownerID, id, changes)
}

// DeleteCourse removes one of the caller's courses.
func (s *CourseService) DeleteCourse(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.courseRepo.Delete(ctx, ownerID, id)
}

// GetCourseStats computes the running average for a course from its graded
// assignments, reporting the manual override grades side by side with it.
func (s *CourseService) GetCourseStats(ctx context.Context, ownerID, id uuid.UUID) (*models.CourseStats, error) {
	course, err := s.courseRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	totals, err := s.statsRepo.GetCourseTotals(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	return &models.CourseStats{
		CurrentAverage:   averageOf(totals.EarnedPoints, totals.CompletedWeight),
		CompletedWeight:  round2(totals.CompletedWeight),
		FinalLetterGrade: course.FinalLetterGrade,
		FinalGradePoints: course.FinalGradePoints,
	}, nil
}

// validateCourseChanges checks the fields that were present in the body.
func validateCourseChanges(changes *models.CourseChanges) error {
	if changes.Name.Set {
		if !changes.Name.Valid || strings.TrimSpace(changes.Name.Value) == "" {
			return apperrors.NewValidationError("course name cannot be empty")
		}
	}
	if changes.Credits.Set {
		if !changes.Credits.Valid || changes.Credits.Value <= 0 {
			return apperrors.NewValidationError("credits must be greater than 0")
		}
	}
	// Override grades may be cleared with an explicit null.
	if changes.FinalGradePoints.Set && changes.FinalGradePoints.Valid {
		if changes.FinalGradePoints.Value < 0 || changes.FinalGradePoints.Value > 4.0 {
			return apperrors.NewValidationError("final grade points must be between 0 and 4.0")
		}
	}
	return nil
}

// averageOf derives the running percentage from earned points and completed
// weight. A course with nothing graded yet averages 0.0 rather than dividing
// by zero.
func averageOf(earnedPoints, completedWeight float64) float64 {
	if completedWeight <= 0 {
		return 0.0
	}
	return round2(earnedPoints / completedWeight * 100)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
