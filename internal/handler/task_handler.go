package handler

import (
	"net/http"

	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req httpdto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	assignedTo, err := parseUUID(req.AssignedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid assigned_to", "INVALID_REQUEST"))
		return
	}

	t, err := h.service.Create(c.Request.Context(), userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  assignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(t))
}

func (h *TaskHandler) Get(c *gin.Context) {
	taskID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid task id", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	t, err := h.service.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(t))
}

func (h *TaskHandler) List(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var assignee *uuid.UUID
	if raw := c.Query("assignee"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid assignee", "INVALID_REQUEST"))
			return
		}
		assignee = &id
	}

	tasks, err := h.service.List(c.Request.Context(), userID, assignee, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"tasks": tasks}))
}

func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid task id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	t, err := h.service.Update(c.Request.Context(), userID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(t))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid task id", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}

func (h *TaskHandler) Stats(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(stats))
}
