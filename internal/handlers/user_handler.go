package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediscan_backend/internal/middleware"
	"mediscan_backend/internal/services"
)

type UserHandler struct {
	*BaseHandler
	authService     services.AuthService
	analysisService services.AnalysisService
}

func NewUserHandler(base *BaseHandler, authService services.AuthService, analysisService services.AnalysisService) *UserHandler {
	return &UserHandler{
		BaseHandler:     base,
		authService:     authService,
		analysisService: analysisService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.Me)
		users.GET("/recent-activity", h.RecentActivity)
	}
}

// Me godoc
// @Summary      Current user profile with scan balances
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RecentActivity godoc
// @Summary      Recent analyses of the current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ActivityResponse
// @Failure      401  {object}  apperrors.ErrorResponse
// @Router       /recent-activity [get]
func (h *UserHandler) RecentActivity(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	activities, err := h.analysisService.RecentActivity(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}
