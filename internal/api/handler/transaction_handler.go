package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/cointrail/tracker-api/internal/core/ports"
)

// ShortDateLayout is the wire format for date-range filter params.
const ShortDateLayout = "2006-01-02"

type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// --- Request / Response types ---

type trackTransactionRequest struct {
	TransactionType string  `json:"transactionType"`
	TransactionHash string  `json:"transactionHash"`
	Network         string  `json:"network"`
	Quantity        float64 `json:"qty" validate:"gte=0"`
	UnitPrice       float64 `json:"price" validate:"gte=0"`
}

type trackTransactionResponse struct {
	Transactions []ports.TransactionView `json:"transactions"`
	Stats        ports.StatsView         `json:"stats"`
}

type filterBy struct {
	Column string   `json:"column"`
	Params []string `json:"params"`
}

type listTransactionsRequest struct {
	FilterBy *filterBy `json:"filterBy"`
}

type listTransactionsResponse struct {
	Transactions []ports.TransactionView `json:"transactions"`
}

type transactionIDRequest struct {
	DBTransactionID int64 `json:"dbtransactionId" query:"dbtransactionId"`
}

type getTransactionResponse struct {
	Transaction ports.TransactionView `json:"transaction"`
}

// Track handles POST /track-transaction.
func (h *TransactionHandler) Track(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req trackTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Record(c.Request().Context(), owner, ports.RecordInput{
		Type:      req.TransactionType,
		Hash:      req.TransactionHash,
		Network:   req.Network,
		Quantity:  decimal.NewFromFloat(req.Quantity),
		UnitPrice: decimal.NewFromFloat(req.UnitPrice),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trackTransactionResponse{
		Transactions: result.Transactions,
		Stats:        result.Stats,
	})
}

// List handles GET /all-transactions.
func (h *TransactionHandler) List(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req listTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	filter, err := buildListFilter(req.FilterBy)
	if err != nil {
		return err
	}

	transactions, err := h.service.List(c.Request().Context(), owner, filter)
	if err != nil {
		return err
	}

	if transactions == nil {
		transactions = []ports.TransactionView{}
	}
	return c.JSON(http.StatusOK, listTransactionsResponse{Transactions: transactions})
}

// Get handles GET /get-transaction.
func (h *TransactionHandler) Get(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req transactionIDRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Get(c.Request().Context(), owner, req.DBTransactionID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, getTransactionResponse{Transaction: *view})
}

// Delete handles DELETE /transaction.
func (h *TransactionHandler) Delete(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req transactionIDRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.Delete(c.Request().Context(), owner, req.DBTransactionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// buildListFilter translates the wire filterBy into a repository filter.
func buildListFilter(fb *filterBy) (ports.ListFilter, error) {
	if fb == nil {
		return ports.ListFilter{}, nil
	}

	switch fb.Column {
	case "Network":
		return ports.ListFilter{Networks: fb.Params}, nil
	case "Date":
		if len(fb.Params) != 2 {
			return ports.ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "date filter needs [from, to]")
		}
		from, err := time.Parse(ShortDateLayout, fb.Params[0])
		if err != nil {
			return ports.ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		to, err := time.Parse(ShortDateLayout, fb.Params[1])
		if err != nil {
			return ports.ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		return ports.ListFilter{DateFrom: from, DateTo: to}, nil
	default:
		return ports.ListFilter{}, echo.NewHTTPError(http.StatusBadRequest, "unrecognized filter column")
	}
}
