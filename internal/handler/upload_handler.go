package handler

import (
	"net/http"

	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) CreateTarget(c *gin.Context) {
	var req httpdto.CreateUploadTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	target, err := h.service.CreateUploadTarget(c.Request.Context(), userID, req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(target))
}
