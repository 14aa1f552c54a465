package handlers

import (
	"net/http"

	"qyzmet_backend/internal/middleware"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/services"
	"qyzmet_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UpgradeHandler struct {
	*BaseHandler
	upgradeService *services.UpgradeService
}

func NewUpgradeHandler(base *BaseHandler, upgradeService *services.UpgradeService) *UpgradeHandler {
	return &UpgradeHandler{
		BaseHandler:    base,
		upgradeService: upgradeService,
	}
}

func (h *UpgradeHandler) RegisterRoutes(r *gin.RouterGroup) {
	upgrades := r.Group("/upgrade-requests")
	upgrades.Use(middleware.AuthMiddleware())
	{
		upgrades.POST("", h.Create)
		upgrades.GET("/my", h.ListMine)
		upgrades.GET("/:requestId", h.Get)
		upgrades.POST("/:requestId/viewed", h.MarkViewed)
	}

	// Admin routes
	admin := r.Group("/admin/upgrade-requests")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
	{
		admin.GET("", h.ListPending)
		admin.POST("/:requestId/accept", h.Accept)
		admin.POST("/:requestId/reject", h.Reject)
	}
}

func (h *UpgradeHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateUpgradeRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.UserID = userID

	resp, err := h.upgradeService.Request(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UpgradeHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	isModerator := HasContextRole(c, models.RoleAdmin) || HasContextRole(c, models.RoleModerator)
	resp, err := h.upgradeService.Get(h.GetDB(c), c.Param("requestId"), userID, isModerator)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UpgradeHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.upgradeService.ListMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UpgradeHandler) MarkViewed(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.upgradeService.MarkViewed(h.GetDB(c), c.Param("requestId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "viewed"})
}

func (h *UpgradeHandler) ListPending(c *gin.Context) {
	resp, err := h.upgradeService.ListPending(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UpgradeHandler) Accept(c *gin.Context) {
	var req dto.DecideUpgradeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.upgradeService.Accept(c.Request.Context(), h.GetDB(c), c.Param("requestId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UpgradeHandler) Reject(c *gin.Context) {
	var req dto.DecideUpgradeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.upgradeService.Reject(c.Request.Context(), h.GetDB(c), c.Param("requestId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
