package handlers

import (
	"net/http"

	"qyzmet_backend/internal/middleware"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/services"
	"qyzmet_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   *services.UserService
	ratingService *services.RatingService
}

func NewUserHandler(base *BaseHandler, userService *services.UserService, ratingService *services.RatingService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		ratingService: ratingService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/users")
	{
		public.GET("/:userId", h.GetUser)
		public.GET("/:userId/rating", h.GetRating)
	}

	// Protected routes
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me/profile", h.GetMe)
		users.PUT("/me/profile", h.UpdateMe)
	}

	// Admin routes
	admin := r.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
	{
		admin.POST("/:userId/block", h.BlockUser)
		admin.POST("/:userId/unblock", h.UnblockUser)
	}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetRating(c *gin.Context) {
	rating, err := h.ratingService.GetRating(h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) BlockUser(c *gin.Context) {
	if err := h.userService.SetBlocked(h.GetDB(c), c.Param("userId"), true); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "blocked"})
}

func (h *UserHandler) UnblockUser(c *gin.Context) {
	if err := h.userService.SetBlocked(h.GetDB(c), c.Param("userId"), false); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unblocked"})
}
