package handlers

import (
	"net/http"

	"qyzmet_backend/internal/middleware"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services"
	"qyzmet_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ComplaintHandler struct {
	*BaseHandler
	moderationService *services.ModerationService
}

func NewComplaintHandler(base *BaseHandler, moderationService *services.ModerationService) *ComplaintHandler {
	return &ComplaintHandler{
		BaseHandler:       base,
		moderationService: moderationService,
	}
}

func (h *ComplaintHandler) RegisterRoutes(r *gin.RouterGroup) {
	complaints := r.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("", h.File)
		complaints.GET("/my", h.ListMine)
		complaints.GET("/:complaintId", h.Get)
	}

	// Admin routes
	admin := r.Group("/admin/complaints")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
	{
		admin.GET("", h.Search)
		admin.PATCH("/:complaintId", h.Act)
		admin.GET("/:complaintId/actions", h.AuditLog)
	}
}

func (h *ComplaintHandler) File(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.FileComplaintRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.ReporterID = userID

	resp, err := h.moderationService.FileComplaint(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ComplaintHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	isModerator := HasContextRole(c, models.RoleAdmin) || HasContextRole(c, models.RoleModerator)
	resp, err := h.moderationService.GetComplaint(h.GetDB(c), c.Param("complaintId"), userID, isModerator)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.moderationService.ListMyComplaints(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComplaintHandler) Search(c *gin.Context) {
	var criteria repositories.ComplaintSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.moderationService.SearchComplaints(h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComplaintHandler) Act(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AdminActRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	meta := dto.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.moderationService.Act(c.Request.Context(), h.GetDB(c), c.Param("complaintId"), adminID, &req, meta)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ComplaintHandler) AuditLog(c *gin.Context) {
	resp, err := h.moderationService.AuditLog(h.GetDB(c), c.Param("complaintId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": resp})
}
