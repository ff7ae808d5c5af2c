package handler

import (
	"net/http"

	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth       *services.AuthService
	activation *services.ActivationService
}

func NewAuthHandler(auth *services.AuthService, activation *services.ActivationService) *AuthHandler {
	return &AuthHandler{auth: auth, activation: activation}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	u, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.RegisterResponse{
		UserID: u.ID.String(),
		Email:  u.Email,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.LoginResponse{
		Token: result.Token,
		User: httpdto.UserProfile{
			UserID:     result.User.ID.String(),
			Email:      result.User.Email,
			Role:       result.Profile.Role,
			Status:     result.Profile.Status,
			FirstName:  result.Profile.FirstName,
			LastName:   result.Profile.LastName,
			Department: result.Profile.Department,
			Phone:      result.Profile.Phone,
			AvatarKey:  result.Profile.AvatarKey,
		},
	}))
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var req httpdto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.activation.Activate(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}

func (h *AuthHandler) ResendActivation(c *gin.Context) {
	var req httpdto.ResendActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.activation.Resend(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}
