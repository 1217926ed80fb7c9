package availability

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

// RegisterPublicRoutes mounts the slot listing used by booking clients.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/mentors/:mentorID/availability", h.GetMentorAvailability)
}

// RegisterMentorRoutes mounts template management; callers must be
// authenticated mentors.
func (h *Handler) RegisterMentorRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.GetTemplate)
	rg.POST("/availability", h.SaveTemplate)
	rg.PUT("/availability", h.SaveTemplate)
	rg.GET("/availability/exceptions", h.ListExceptions)
	rg.POST("/availability/exceptions", h.AddException)
	rg.DELETE("/availability/exceptions/:id", h.RemoveException)
}

func (h *Handler) GetMentorAvailability(c *gin.Context) {
	mentorID, err := strconv.ParseInt(c.Param("mentorID"), 10, 64)
	if err != nil {
		response.Validation(c, "Invalid mentor ID")
		return
	}

	duration := 0
	// Both spellings accepted for compatibility with existing clients.
	for _, key := range []string{"duration", "durationInMinutes"} {
		if raw := c.Query(key); raw != "" {
			if duration, err = strconv.Atoi(raw); err != nil {
				response.Validation(c, "Invalid duration")
				return
			}
			break
		}
	}

	result, err := h.service.GetMentorAvailability(c.Request.Context(), mentorID, duration)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Validation(c, "Invalid duration")
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "Mentor not found")
		default:
			response.Internal(c, "Error fetching availability")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	tmpl, err := h.service.GetTemplate(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Internal(c, "Error fetching availability template")
		return
	}
	response.Success(c, http.StatusOK, tmpl)
}

func (h *Handler) SaveTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}

	tmpl, err := h.service.SaveTemplate(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Validation(c, err.Error())
			return
		}
		response.Internal(c, "Error saving availability template")
		return
	}
	response.Success(c, http.StatusOK, tmpl)
}

func (h *Handler) ListExceptions(c *gin.Context) {
	exceptions, err := h.service.ListExceptions(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Internal(c, "Error fetching exception dates")
		return
	}
	response.Success(c, http.StatusOK, exceptions)
}

func (h *Handler) AddException(c *gin.Context) {
	var req ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, "Invalid request body")
		return
	}

	e, err := h.service.AddException(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Validation(c, err.Error())
			return
		}
		response.Internal(c, "Error adding exception date")
		return
	}
	response.Success(c, http.StatusCreated, e)
}

func (h *Handler) RemoveException(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Validation(c, "Invalid exception ID")
		return
	}

	if err := h.service.RemoveException(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Exception date not found")
			return
		}
		response.Internal(c, "Error removing exception date")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
