package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
)

const (
	defaultWeight   = 0.0
	defaultMaxScore = 100.0
)

// AssignmentStore is the data access the assignment service needs.
type AssignmentStore interface {
	ListByCourse(ctx context.Context, ownerID, courseID uuid.UUID) ([]models.Assignment, error)
	GetByID(ctx context.Context, ownerID, courseID, id uuid.UUID) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, ownerID, courseID, id uuid.UUID, changes *models.AssignmentChanges) (*models.Assignment, error)
	Delete(ctx context.Context, ownerID, courseID, id uuid.UUID) error
}

// AssignmentService handles assignment-related operations
type AssignmentService struct {
	assignmentRepo AssignmentStore
}

// NewAssignmentService creates a new assignment service instance
func NewAssignmentService(assignmentRepo AssignmentStore) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
	}
}

// ListAssignments retrieves a course's assignments in insertion order.
func (s *AssignmentService) ListAssignments(ctx context.Context, ownerID, courseID uuid.UUID) ([]models.Assignment, error) {
	return s.assignmentRepo.ListByCourse(ctx, ownerID, courseID)
}

// GetAssignment retrieves one assignment in the context of its parent course.
func (s *AssignmentService) GetAssignment(ctx context.Context, ownerID, courseID, id uuid.UUID) (*models.Assignment, error) {
	return s.assignmentRepo.GetByID(ctx, ownerID, courseID, id)
}

// CreateAssignment creates an assignment under the caller's course. Weight
// defaults to 0 and max score to 100 when unspecified; the score stays null
// until graded.
func (s *AssignmentService) CreateAssignment(ctx context.Context, ownerID, courseID uuid.UUID, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.NewValidationError("assignment title cannot be empty")
	}

	weight := defaultWeight
	if req.Weight != nil {
		if *req.Weight < 0 || *req.Weight > 100 {
			return nil, apperrors.NewValidationError("weight must be between 0 and 100")
		}
		weight = *req.Weight
	}

	maxScore := defaultMaxScore
	if req.MaxScore != nil {
		if *req.MaxScore <= 0 {
			return nil, apperrors.NewValidationError("max score must be greater than 0")
		}
		maxScore = *req.MaxScore
	}

	if req.Score != nil && *req.Score < 0 {
		return nil, apperrors.NewValidationError("score cannot be negative")
	}

	assignment := &models.Assignment{
		OwnerID:  ownerID,
		CourseID: courseID,
		Title:    req.Title,
		Weight:   weight,
		MaxScore: maxScore,
		Score:    req.Score,
		DueDate:  req.DueDate,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

// UpdateAssignment applies a sparse field set to an assignment. Setting the
// score to an explicit null un-grades it; omitting the score leaves the grade
// alone.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, ownerID, courseID, id uuid.UUID, changes *models.AssignmentChanges) (*models.Assignment, error) {
	if err := validateAssignmentChanges(changes); err != nil {
		return nil, err
	}
	return s.assignmentRepo.Update(ctx, ownerID, courseID, id, changes)
}

// DeleteAssignment removes an assignment from the caller's course.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, ownerID, courseID, id uuid.UUID) error {
	return s.assignmentRepo.Delete(ctx, ownerID, courseID, id)
}

// validateAssignmentChanges checks the fields that were present in the body.
func validateAssignmentChanges(changes *models.AssignmentChanges) error {
	if changes.Title.Set {
		if !changes.Title.Valid || strings.TrimSpace(changes.Title.Value) == "" {
			return apperrors.NewValidationError("assignment title cannot be empty")
		}
	}
	if changes.Weight.Set {
		if !changes.Weight.Valid || changes.Weight.Value < 0 || changes.Weight.Value > 100 {
			return apperrors.NewValidationError("weight must be between 0 and 100")
		}
	}
	if changes.MaxScore.Set {
		if !changes.MaxScore.Valid || changes.MaxScore.Value <= 0 {
			return apperrors.NewValidationError("max score must be greater than 0")
		}
	}
	if changes.Score.Set && changes.Score.Valid && changes.Score.Value < 0 {
		return apperrors.NewValidationError("score cannot be negative")
	}
	return nil
}
