package handler

import (
	"net/http"

	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UserProfile{
		UserID:     profile.UserID.String(),
		Role:       profile.Role,
		Status:     profile.Status,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Department: profile.Department,
		Phone:      profile.Phone,
		AvatarKey:  profile.AvatarKey,
		IsOnline:   profile.IsOnline,
		LastSeen:   profile.LastSeen,
	}))
}

func (h *UserHandler) ListDirectory(c *gin.Context) {
	if _, err := services.UserIDFromContext(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.service.ListDirectory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]httpdto.UserProfile, 0, len(entries))
	for _, e := range entries {
		users = append(users, httpdto.UserProfile{
			UserID:     e.Profile.UserID.String(),
			Role:       e.Profile.Role,
			Status:     e.Profile.Status,
			FirstName:  e.Profile.FirstName,
			LastName:   e.Profile.LastName,
			Department: e.Profile.Department,
			AvatarKey:  e.Profile.AvatarKey,
			IsOnline:   e.IsOnline,
			LastSeen:   e.Profile.LastSeen,
		})
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"users": users}))
}

func (h *UserHandler) SetOnlineStatus(c *gin.Context) {
	var req httpdto.SetOnlineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.SetOnlineStatus(c.Request.Context(), userID, req.IsOnline); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}

func (h *UserHandler) SetProfileStatus(c *gin.Context) {
	targetID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.SetProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.SetProfileStatus(c.Request.Context(), userID, targetID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}
