package handler

import (
	"net/http"

	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	service *services.OnboardingService
}

func NewOnboardingHandler(service *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

func (h *OnboardingHandler) Start(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.service.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(o))
}

func (h *OnboardingHandler) Status(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.service.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(o))
}

func (h *OnboardingHandler) UpdateStep(c *gin.Context) {
	var req httpdto.UpdateOnboardingStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	o, err := h.service.UpdateStep(c.Request.Context(), userID, req.Step, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(o))
}

func (h *OnboardingHandler) Recommendation(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.service.Recommendation(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(rec))
}
