package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cointrail/tracker-api/internal/core/ports"
)

type ViewHandler struct {
	service ports.TransactionService
}

func NewViewHandler(service ports.TransactionService) *ViewHandler {
	return &ViewHandler{service: service}
}

type newViewRequest struct {
	Name           string  `json:"name"`
	TransactionIDs []int64 `json:"transactionIds" validate:"required"`
}

// Create handles POST /new-view: persists a named selection of the
// caller's transaction ids.
func (h *ViewHandler) Create(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req newViewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.CreateView(c.Request().Context(), owner, req.Name, req.TransactionIDs); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
