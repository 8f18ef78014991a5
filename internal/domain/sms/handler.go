package sms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/send_sms", h.Send)
	api.GET("/sms_logs", h.Logs)
}

// sendEnvelope is the success shape; details is always present, empty when
// no recipient matched. Errors use sendErrorEnvelope, which carries no
// details key.
type sendEnvelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Details []RecipientResult `json:"details"`
}

type sendErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send broadcasts a message to every patient with a mobile number in the
// requested cities. The cities field arrives as a JSON-encoded string array
// inside the form payload.
func (h *Handler) Send(c echo.Context) error {
	var cities []string
	if raw := c.FormValue("cities"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cities); err != nil {
			return c.JSON(http.StatusOK, sendErrorEnvelope{
				Status:  "error",
				Message: "City and message are required",
			})
		}
	}
	message := c.FormValue("message")

	result, err := h.svc.Dispatch(c.Request().Context(), cities, message)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return c.JSON(http.StatusOK, sendErrorEnvelope{
				Status:  "error",
				Message: "City and message are required",
			})
		}
		return c.JSON(http.StatusInternalServerError, sendErrorEnvelope{
			Status:  "error",
			Message: "Failed to send SMS: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, sendEnvelope{
		Status:  "sent",
		Message: fmt.Sprintf("Message sent to %d recipients, failed for %d.", result.SentCount, result.FailedCount),
		Details: result.Details,
	})
}

type logRow struct {
	SMSLogID        int64  `json:"sms_log_id"`
	PatientID       int64  `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	RecipientNumber string `json:"recipient_number"`
	Message         string `json:"message"`
	Status          string `json:"status"`
	SentAt          string `json:"sent_at"`
}

// logsEnvelope is the success shape; data is always present, empty when the
// log table is.
type logsEnvelope struct {
	Success bool     `json:"success"`
	Data    []logRow `json:"data"`
}

type logsErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (h *Handler) Logs(c echo.Context) error {
	views, err := h.svc.Logs(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, logsErrorEnvelope{
			Success: false,
			Message: "Failed to fetch SMS logs.",
			Error:   err.Error(),
		})
	}

	rows := make([]logRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, logRow{
			SMSLogID:        v.ID,
			PatientID:       v.PatientID,
			PatientName:     v.PatientName,
			RecipientNumber: v.RecipientNumber,
			Message:         v.Message,
			Status:          v.Status,
			SentAt:          v.SentAt.Format("2006-01-02 15:04:05"),
		})
	}

	return c.JSON(http.StatusOK, logsEnvelope{
		Success: true,
		Data:    rows,
	})
}
