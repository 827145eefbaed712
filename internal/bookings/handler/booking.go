package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"hearth/internal/bookings/service"
	apperrors "hearth/pkg/errors"
	httputil "hearth/pkg/http"
	"hearth/pkg/logger"
	"hearth/pkg/middleware"
	"hearth/pkg/model"
)

const deleteTokenHeader = "X-Delete-Token"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type createBookingRequest struct {
	Occupant  string `json:"occupant"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type createBookingResponse struct {
	Success     bool   `json:"success"`
	BookingID   string `json:"booking_id,omitempty"`
	DeleteToken string `json:"delete_token,omitempty"`
	Message     string `json:"message,omitempty"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeFailure(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		h.writeFailure(w, "Create", apperrors.InvalidInput("invalid start_time format, must be RFC3339"))
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		h.writeFailure(w, "Create", apperrors.InvalidInput("invalid end_time format, must be RFC3339"))
		return
	}

	booking := &model.Booking{
		Occupant:  req.Occupant,
		StartTime: startTime,
		EndTime:   endTime,
	}

	receipt, err := h.service.Create(r.Context(), booking, middleware.ClientKey(r))
	if err != nil {
		h.writeFailure(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, createBookingResponse{
		Success:     true,
		BookingID:   receipt.ID,
		DeleteToken: receipt.DeleteToken,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	suppliedToken := r.Header.Get(deleteTokenHeader)

	if err := h.service.Delete(r.Context(), id, suppliedToken, middleware.ClientKey(r)); err != nil {
		// NotFound and Unauthorized are presented identically so the
		// response does not reveal whether a booking id exists.
		if apperrors.IsCode(err, apperrors.CodeNotFound) || apperrors.IsCode(err, apperrors.CodeUnauthorized) {
			h.log.Warn("Booking delete denied", "id", id, "reason", apperrors.AsAppError(err).Code)
			if writeErr := httputil.WriteJSON(w, http.StatusNotFound, actionResponse{
				Success: false,
				Message: "Cannot delete booking",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Delete", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
		h.writeFailure(w, "Delete", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, actionResponse{Success: true}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Delete", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	from, err := time.Parse(time.RFC3339, query.Get("start_time"))
	if err != nil {
		h.writeFailure(w, "List", apperrors.InvalidInput("invalid start_time format, must be RFC3339"))
		return
	}
	to, err := time.Parse(time.RFC3339, query.Get("end_time"))
	if err != nil {
		h.writeFailure(w, "List", apperrors.InvalidInput("invalid end_time format, must be RFC3339"))
		return
	}

	bookings, err := h.service.ListRange(r.Context(), from, to)
	if err != nil {
		h.writeFailure(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

// writeFailure writes the {success:false, message} failure shape with the
// AppError's status. Rate-limit rejections get a Retry-After header.
func (h *BookingHandler) writeFailure(w http.ResponseWriter, handlerName string, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.Code == apperrors.CodeRateLimited {
		if seconds, ok := appErr.Details["retry_after_seconds"].(int); ok {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
		}
	}

	message := appErr.Message
	if appErr.Code == apperrors.CodeInternal {
		message = "Failed to process booking request"
	}

	if writeErr := httputil.WriteJSON(w, appErr.StatusCode(), actionResponse{
		Success: false,
		Message: message,
	}); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
}
