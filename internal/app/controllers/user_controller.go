package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/app/services"
	"github.com/JackLockhart04/course-genius/internal/middleware"
	"github.com/JackLockhart04/course-genius/internal/pkg/apperrors"
)

// UserController handles the caller's own profile.
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetMe returns the authenticated caller's profile
// @Summary Get current user
// @Description Returns the caller's profile, creating it on first sight of the identity
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse "Profile retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Profile lookup failed"
// @Router /user/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	ident, found := middleware.CurrentIdentity(ctx)
	if !found {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("authentication required"))
		return
	}

	profile, err := c.userService.GetProfile(ctx, ident)
	if err != nil {
		if apperrors.IsNotFound(err) {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to load profile"))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}
