package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/request"
	"github.com/umair4234/psx-portfolio-tracker/internal/api/response"
	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

// OverrideHandler handles HTTP requests for manual price overrides.
type OverrideHandler struct {
	settingsService *service.SettingsService
}

// NewOverrideHandler creates a new OverrideHandler with the provided service dependency.
func NewOverrideHandler(settingsService *service.SettingsService) *OverrideHandler {
	return &OverrideHandler{
		settingsService: settingsService,
	}
}

// Overrides handles GET requests to retrieve all overrides as entered.
//
// Endpoint: GET /api/overrides
// Response: 200 OK with map of ticker to value
func (h *OverrideHandler) Overrides(w http.ResponseWriter, _ *http.Request) {
	overrides, err := h.settingsService.GetOverrides()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadOverrides.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overrides)
}

// SetOverride handles PUT requests to set a ticker's manual price. The value
// is stored exactly as entered; non-numeric values are ignored at valuation
// time rather than rejected here.
//
// Endpoint: PUT /api/overrides/{ticker}
// Request Body: OverrideRequest (value)
// Response: 204 No Content on success
func (h *OverrideHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	req, err := parseJSON[request.OverrideRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.settingsService.SetOverride(ticker, req.Value); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// DeleteOverride handles DELETE requests to remove a ticker's override.
//
// Endpoint: DELETE /api/overrides/{ticker}
// Response: 204 No Content on success
// Error: 404 Not Found if no override exists for the ticker
func (h *OverrideHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	if err := h.settingsService.DeleteOverride(ticker); err != nil {
		if errors.Is(err, apperrors.ErrOverrideNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOverrideNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSavePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
