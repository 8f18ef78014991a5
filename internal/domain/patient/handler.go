package patient

import (
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
	// GET accepted as well for callers that pass filters as query params.
	api.POST("/patients/search", h.Search)
	api.GET("/patients/search", h.Search)
}

type searchEnvelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Patients []*SearchResult `json:"patients,omitempty"`
}

// Search filters patients by whichever of the recognized optional fields the
// caller supplied. No fields at all returns the full table, which can be the
// entire registry.
func (h *Handler) Search(c echo.Context) error {
	f := Filter{
		PatientID: param(c, "PatientID"),
		Surname:   param(c, "Surname"),
		FirstName: param(c, "FirstName"),
		School:    param(c, "School"),
		City:      param(c, "City"),
	}

	results, err := h.svc.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, searchEnvelope{
			Success: false,
			Message: "Failed to search patients: " + err.Error(),
		})
	}

	if len(results) == 0 {
		return c.JSON(http.StatusOK, searchEnvelope{
			Success: false,
			Message: "No patients found",
		})
	}

	return c.JSON(http.StatusOK, searchEnvelope{
		Success:  true,
		Patients: results,
	})
}

// param reads a request value from the form body first, then the query
// string.
func param(c echo.Context, name string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}
	return c.QueryParam(name)
}
