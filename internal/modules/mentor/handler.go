package mentor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mentorhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/mentors", h.List)
	v1.GET("/mentors/:mentorID/profile", h.ProfileByUsername)
}

func (h *Handler) RegisterMentorRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.ListOwnServices)
	rg.POST("/services", h.CreateService)
	rg.PUT("/services/:id", h.UpdateService)
}

func (h *Handler) List(c *gin.Context) {
	mentors, err := h.service.ListMentors(c.Request.Context())
	if err != nil {
		response.Internal(c, "Error fetching mentors")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"mentors": mentors})
}

// ProfileByUsername serves the mentor's public page. The path segment is
// a username, not a numeric ID.
func (h *Handler) ProfileByUsername(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("mentorID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Mentor not found")
			return
		}
		response.Internal(c, "Error fetching mentor profile")
		return
	}
	response.Success(c, http.StatusOK, profile)
}

func (h *Handler) ListOwnServices(c *gin.Context) {
	services, err := h.service.ListOwnServices(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Internal(c, "Error fetching services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.Internal(c, "Error creating service")
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Validation(c, "Invalid service ID")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Service not found")
		case errors.Is(err, ErrValidation):
			response.Validation(c, "Price must be positive")
		default:
			response.Internal(c, "Error updating service")
		}
		return
	}
	response.Success(c, http.StatusOK, svc)
}
