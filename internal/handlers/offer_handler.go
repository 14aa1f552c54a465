package handlers

import (
	"net/http"

	"qyzmet_backend/internal/middleware"
	"qyzmet_backend/internal/services"
	"qyzmet_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	*BaseHandler
	offerService *services.OfferService
}

func NewOfferHandler(base *BaseHandler, offerService *services.OfferService) *OfferHandler {
	return &OfferHandler{
		BaseHandler:  base,
		offerService: offerService,
	}
}

func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup) {
	offers := r.Group("/offers")
	offers.Use(middleware.AuthMiddleware())
	{
		offers.POST("", h.Submit)
		offers.GET("/my", h.ListMine)
		offers.GET("/:offerId", h.Get)
	}

	jobs := r.Group("/job-requests")
	jobs.Use(middleware.AuthMiddleware())
	{
		jobs.GET("/:jobId/offers", h.ListForJob)
	}
}

func (h *OfferHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitOfferRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	req.ProviderID = userID

	resp, err := h.offerService.Submit(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OfferHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.Get(h.GetDB(c), c.Param("offerId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OfferHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.ListMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OfferHandler) ListForJob(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.ListForJob(h.GetDB(c), c.Param("jobId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
