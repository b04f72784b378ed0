package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/request"
	"github.com/umair4234/psx-portfolio-tracker/internal/api/response"
	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
	"github.com/umair4234/psx-portfolio-tracker/internal/validation"
)

// maxBackupSize caps uploaded backup bodies at 10MB.
const maxBackupSize = 10 << 20

// PortfolioHandler handles HTTP requests for portfolio-level endpoints:
// the full ledger, derived metrics, allocation, history, import and backup.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	quoteService     *service.QuoteService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(portfolioService *service.PortfolioService, quoteService *service.QuoteService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		quoteService:     quoteService,
	}
}

// Portfolio handles GET requests for the complete ledger.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, _ *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Metrics handles GET requests for portfolio-level valuation figures.
//
// Endpoint: GET /api/portfolio/metrics
// Response: 200 OK with PortfolioMetrics
func (h *PortfolioHandler) Metrics(w http.ResponseWriter, _ *http.Request) {
	metrics, err := h.portfolioService.GetMetrics()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// Allocation handles GET requests for the value-weighted sector breakdown.
//
// Endpoint: GET /api/portfolio/allocation
// Response: 200 OK with array of SectorAllocation (empty array when the
// portfolio has no valuable holdings)
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, _ *http.Request) {
	allocation, err := h.portfolioService.GetAllocation()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}
	if allocation == nil {
		allocation = []model.SectorAllocation{}
	}

	response.RespondJSON(w, http.StatusOK, allocation)
}

// History handles GET requests for the daily value history.
//
// Endpoint: GET /api/portfolio/history
// Response: 200 OK with array of PortfolioSnapshot
func (h *PortfolioHandler) History(w http.ResponseWriter, _ *http.Request) {
	history, err := h.portfolioService.GetHistory()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Snapshot handles POST requests to record today's portfolio value.
//
// Endpoint: POST /api/portfolio/history
// Response: 201 Created with the recorded PortfolioSnapshot
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := h.portfolioService.RecordSnapshot()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshot)
}

// ImportResponse reports the outcome of a bulk import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// Import handles POST requests to bulk-import purchases from free-form text.
// Lines have the shape "TICKER QUANTITY PRICE [DATE]"; malformed lines are
// skipped.
//
// Endpoint: POST /api/portfolio/import
// Request Body: BulkImportRequest
// Response: 200 OK with ImportResponse
// Error: 400 Bad Request if the body is empty or no line parses
func (h *PortfolioHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.BulkImportRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateBulkImport(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	imported, err := h.portfolioService.BulkImport(req.Text)
	if err != nil {
		if errors.Is(err, apperrors.ErrNothingImported) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrNothingImported.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ImportResponse{Imported: imported})
}

// Refresh handles POST requests to refresh live quotes for all holdings.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with RefreshResult (failed tickers listed, not fatal)
// Error: 500 Internal Server Error if the ledger cannot be loaded or saved
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.quoteService.RefreshQuotes(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshQuotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Export handles GET requests to download the full ledger as a JSON backup.
//
// Endpoint: GET /api/portfolio/export
// Response: 200 OK, application/json attachment
func (h *PortfolioHandler) Export(w http.ResponseWriter, _ *http.Request) {
	data, err := h.portfolioService.Export()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadPortfolio.Error(), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportBackup handles POST requests to restore the ledger from an exported
// backup, replacing all current holdings and history.
//
// Endpoint: POST /api/portfolio/import-backup
// Request Body: exported Portfolio JSON
// Response: 204 No Content on success
// Error: 400 Bad Request if the backup is malformed
func (h *PortfolioHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBackupSize))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "failed to read request body", err.Error())
		return
	}

	if err := h.portfolioService.ImportBackup(data); err != nil {
		if errors.Is(err, apperrors.ErrMalformedBackup) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrMalformedBackup.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
