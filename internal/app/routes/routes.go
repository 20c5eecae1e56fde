package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/JackLockhart04/course-genius/internal/app/controllers"
	"github.com/JackLockhart04/course-genius/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	assignmentController *controllers.AssignmentController,
	userController *controllers.UserController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Every request gets a resolved identity (or anonymous) before routing.
	v1.Use(authMiddleware.Authenticate())

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireUser())
	{
		// Profile routes
		user := authenticated.Group("/user")
		{
			user.GET("/me", userController.GetMe)
		}

		// Course routes - all rows are scoped to the caller
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.POST("", courseController.CreateCourse)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.PATCH("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
			courses.GET("/:id/stats", courseController.GetCourseStats)

			// Assignment routes nested under their parent course
			assignments := courses.Group("/:id/assignments")
			{
				assignments.GET("", assignmentController.ListAssignments)
				assignments.POST("", assignmentController.CreateAssignment)
				assignments.GET("/:aid", assignmentController.GetAssignmentByID)
				assignments.PATCH("/:aid", assignmentController.UpdateAssignment)
				assignments.DELETE("/:aid", assignmentController.DeleteAssignment)
			}
		}
	}

	// Swagger routes are set up in bootstrap.go already
}
