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

type JobRequestHandler struct {
	*BaseHandler
	jobService *services.JobRequestService
}

func NewJobRequestHandler(base *BaseHandler, jobService *services.JobRequestService) *JobRequestHandler {
	return &JobRequestHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	public := r.Group("/job-requests")
	{
		public.GET("", h.Search)
		public.GET("/:jobId", h.Get)
	}

	// Protected routes
	jobs := r.Group("/job-requests")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.POST("", h.Create)
		jobs.GET("/my", h.ListMine)
		jobs.PUT("/:jobId", h.Update)
		jobs.DELETE("/:jobId", h.Delete)
		jobs.POST("/:jobId/assign", h.Assign)
		jobs.POST("/:jobId/complete", h.Complete)
		jobs.POST("/:jobId/cancel", h.Cancel)
	}
}

func (h *JobRequestHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.SeekerID = userID

	resp, err := h.jobService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *JobRequestHandler) Get(c *gin.Context) {
	resp, err := h.jobService.Get(h.GetDB(c), c.Param("jobId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) Search(c *gin.Context) {
	var criteria repositories.JobSearchCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.jobService.Search(h.GetDB(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.jobService.ListBySeeker(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.jobService.Update(h.GetDB(c), c.Param("jobId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	isModerator := HasContextRole(c, models.RoleAdmin) || HasContextRole(c, models.RoleModerator)
	if err := h.jobService.Delete(h.GetDB(c), c.Param("jobId"), userID, isModerator); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *JobRequestHandler) Assign(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AssignOfferRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.jobService.Assign(c.Request.Context(), h.GetDB(c), c.Param("jobId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) Complete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteJobRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.jobService.Complete(c.Request.Context(), h.GetDB(c), c.Param("jobId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *JobRequestHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.jobService.Cancel(h.GetDB(c), c.Param("jobId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
