package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/app/services"
	"github.com/JackLockhart04/course-genius/internal/middleware"
)

// AssignmentController handles assignment operations nested under a course.
type AssignmentController struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
	}
}

// courseScope extracts the caller identity and parent course id shared by
// every assignment route.
func courseScope(ctx *gin.Context) (ownerID, courseID uuid.UUID, ok bool) {
	ident, found := middleware.CurrentIdentity(ctx)
	if !found {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("authentication required"))
		return uuid.Nil, uuid.Nil, false
	}

	courseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid course id"))
		return uuid.Nil, uuid.Nil, false
	}

	return ident.ID, courseID, true
}

// ListAssignments lists a course's assignments
// @Summary List assignments
// @Description Retrieves all assignments of one of the caller's courses, oldest first
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Success 200 {array} models.Assignment "Assignments retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	ownerID, courseID, ok := courseScope(ctx)
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListAssignments(ctx, ownerID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assignments)
}

// CreateAssignment creates an assignment under a course
// @Summary Create an assignment
// @Description Creates an assignment under one of the caller's courses; weight defaults to 0 and max score to 100
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param request body dto.CreateAssignmentRequest true "Assignment information"
// @Success 201 {object} models.Assignment "Assignment created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment data"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	ownerID, courseID, ok := courseScope(ctx)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.BindingErrorMessage(err)))
		return
	}

	assignment, err := c.assignmentService.CreateAssignment(ctx, ownerID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, assignment)
}

// GetAssignmentByID retrieves an assignment by ID
// @Summary Get assignment by ID
// @Description Retrieves one assignment in the context of its parent course
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param aid path string true "Assignment ID" Format(uuid)
// @Success 200 {object} models.Assignment "Assignment retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /courses/{id}/assignments/{aid} [get]
func (c *AssignmentController) GetAssignmentByID(ctx *gin.Context) {
	ownerID, courseID, ok := courseScope(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("aid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid assignment id"))
		return
	}

	assignment, err := c.assignmentService.GetAssignment(ctx, ownerID, courseID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assignment)
}

// UpdateAssignment partially updates an assignment
// @Summary Update an assignment
// @Description Applies only the fields present in the body; an explicit null score un-grades the assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param aid path string true "Assignment ID" Format(uuid)
// @Param request body models.AssignmentChanges true "Sparse assignment fields"
// @Success 200 {object} models.Assignment "Assignment updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment data"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /courses/{id}/assignments/{aid} [patch]
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	ownerID, courseID, ok := courseScope(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("aid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid assignment id"))
		return
	}

	var changes models.AssignmentChanges
	if err := ctx.ShouldBindJSON(&changes); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.BindingErrorMessage(err)))
		return
	}

	assignment, err := c.assignmentService.UpdateAssignment(ctx, ownerID, courseID, id, &changes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, assignment)
}

// DeleteAssignment deletes an assignment
// @Summary Delete an assignment
// @Description Deletes an assignment from one of the caller's courses
// @Tags assignments
// @Security BearerAuth
// @Param id path string true "Course ID" Format(uuid)
// @Param aid path string true "Assignment ID" Format(uuid)
// @Success 204 "Assignment deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /courses/{id}/assignments/{aid} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	ownerID, courseID, ok := courseScope(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("aid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid assignment id"))
		return
	}

	if err := c.assignmentService.DeleteAssignment(ctx, ownerID, courseID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
