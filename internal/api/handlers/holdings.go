package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/request"
	"github.com/umair4234/psx-portfolio-tracker/internal/api/response"
	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
	"github.com/umair4234/psx-portfolio-tracker/internal/validation"
)

// HoldingHandler handles HTTP requests for holding endpoints. It serves as
// the HTTP layer adapter, parsing requests and delegating ledger logic to
// the portfolioService.
type HoldingHandler struct {
	portfolioService *service.PortfolioService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(portfolioService *service.PortfolioService) *HoldingHandler {
	return &HoldingHandler{
		portfolioService: portfolioService,
	}
}

// Holdings handles GET requests to retrieve all holdings.
//
// Endpoint: GET /api/holding
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, _ *http.Request) {
	holdings, err := h.portfolioService.GetHoldings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetHolding handles GET requests to retrieve one holding by ticker.
//
// Endpoint: GET /api/holding/{ticker}
// Response: 200 OK with Holding
// Error: 404 Not Found if no holding exists for the ticker
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	holding, err := h.portfolioService.GetHolding(ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// Transactions handles GET requests for a holding's transaction history.
//
// Endpoint: GET /api/holding/{ticker}/transactions
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if no holding exists for the ticker
func (h *HoldingHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	transactions, err := h.portfolioService.GetTransactions(ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// CreateHolding handles POST requests to record a purchase. A new ticker
// creates the holding; an existing ticker merges the buy into its history.
//
// Endpoint: POST /api/holding
// Request Body: CreateHoldingRequest (ticker, quantity, price, optional date)
// Response: 201 Created with the holding's post-purchase state
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if persistence fails
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.portfolioService.AddPurchase(req.Ticker, req.Quantity, req.Price, req.Date)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, holding)
}

// UpdateHolding handles PUT requests for a manual correction: the holding's
// transaction history is replaced by a single synthetic buy matching the
// given totals.
//
// Endpoint: PUT /api/holding/{ticker}
// Request Body: UpdateHoldingRequest (totalQuantity, averagePrice)
// Response: 200 OK with the corrected Holding
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if no holding exists for the ticker
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.portfolioService.UpdateHolding(ticker, req.TotalQuantity, req.AveragePrice)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding and its entire
// transaction history.
//
// Endpoint: DELETE /api/holding/{ticker}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if no holding exists for the ticker
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if err := h.portfolioService.DeleteHolding(ticker); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Sell handles POST requests to record a sale against a holding. A sale of
// the full position removes the holding.
//
// Endpoint: POST /api/holding/{ticker}/sell
// Request Body: SellRequest (quantity, price, optional date)
// Response: 204 No Content on success
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if no holding exists for the ticker
// Error: 409 Conflict if the quantity exceeds the held position
func (h *HoldingHandler) Sell(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	req, err := parseJSON[request.SellRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSell(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.portfolioService.Sell(ticker, req.Quantity, req.Price, req.Date); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
		case errors.Is(err, apperrors.ErrInsufficientQuantity):
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientQuantity.Error(), "")
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Dividend handles POST requests to record a cash dividend against a
// holding. Dividends never change quantity or cost basis.
//
// Endpoint: POST /api/holding/{ticker}/dividend
// Request Body: DividendRequest (amount, optional date)
// Response: 204 No Content on success
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if no holding exists for the ticker
func (h *HoldingHandler) Dividend(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	req, err := parseJSON[request.DividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.portfolioService.AddDividend(ticker, req.Amount, req.Date); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
