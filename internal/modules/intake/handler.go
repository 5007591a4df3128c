package intake

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookingintake/internal/pkg/response"
	"bookingintake/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/intake/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id", h.UpdateSession)
		sessions.GET("/:id/availability", h.Availability)
		sessions.POST("/:id/advance", h.Advance)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/submit", h.Submit)
		sessions.DELETE("/:id", h.Abandon)
	}
}

func (h *Handler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	// an empty body is fine: everything has a default
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field value", errs)
		return
	}

	sess, err := h.service.StartSession(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field value", errs)
		return
	}

	sess, err := h.service.UpdateSession(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) Availability(c *gin.Context) {
	sess, err := h.service.ResolveAvailability(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) Advance(c *gin.Context) {
	sess, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) Back(c *gin.Context) {
	sess, err := h.service.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) Submit(c *gin.Context) {
	result, err := h.service.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, SubmitResponse{
		Completed: result.Completed,
		Booking:   result.Booking,
		Message:   result.Message,
	})
}

func (h *Handler) Abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var gateErr *GateError
	var subErr *SubmissionError

	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Intake session not found or expired")
	case errors.As(err, &gateErr):
		response.Error(c, http.StatusUnprocessableEntity, "STEP_INCOMPLETE", gateErr.Message)
	case errors.Is(err, ErrTypeLocked):
		response.Error(c, http.StatusConflict, "BOOKING_TYPE_LOCKED", "Booking type can only be changed on the first step")
	case errors.Is(err, ErrDateRequired):
		response.Error(c, http.StatusBadRequest, "DATE_REQUIRED", "Select a date before requesting availability")
	case errors.Is(err, ErrDateNotSelectable):
		response.Error(c, http.StatusBadRequest, "DATE_NOT_SELECTABLE", "Pick a weekday in the future")
	case errors.Is(err, ErrSlotNotOffered):
		response.Error(c, http.StatusConflict, "SLOT_NOT_OFFERED", "That time is not among the offered slots for the selected date")
	case errors.Is(err, ErrSubmitInFlight):
		response.Error(c, http.StatusConflict, "SUBMISSION_IN_FLIGHT", "A submission is already in progress")
	case errors.As(err, &subErr):
		response.Error(c, http.StatusBadGateway, "SUBMISSION_FAILED", subErr.Message)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field value")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
