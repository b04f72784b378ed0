package handlers

import (
	"errors"
	"net/http"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/request"
	"github.com/umair4234/psx-portfolio-tracker/internal/api/response"
	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
)

// SettingsHandler handles HTTP requests for system settings. API keys are
// write-only: the status endpoint reports presence, never the key itself.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the provided service dependency.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GeminiKeyStatusResponse reports whether an API key is stored.
type GeminiKeyStatusResponse struct {
	Configured bool `json:"configured"`
}

// GeminiKeyStatus handles GET requests for the API key's presence.
//
// Endpoint: GET /api/settings/gemini-key
// Response: 200 OK with GeminiKeyStatusResponse
func (h *SettingsHandler) GeminiKeyStatus(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, GeminiKeyStatusResponse{
		Configured: h.settingsService.HasGeminiKey(),
	})
}

// SetGeminiKey handles PUT requests to store the Gemini API key, encrypted
// at rest.
//
// Endpoint: PUT /api/settings/gemini-key
// Request Body: GeminiKeyRequest (apiKey)
// Response: 204 No Content on success
// Error: 400 Bad Request if the key is empty
// Error: 503 Service Unavailable if no encryption key is configured
func (h *SettingsHandler) SetGeminiKey(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.GeminiKeyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.APIKey == "" {
		response.RespondError(w, http.StatusBadRequest, "apiKey is required", "")
		return
	}

	if err := h.settingsService.SetGeminiKey(req.APIKey); err != nil {
		if errors.Is(err, apperrors.ErrProviderNotConfigured) {
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrProviderNotConfigured.Error(), "encryption key not configured")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// DeleteGeminiKey handles DELETE requests to remove the stored API key.
//
// Endpoint: DELETE /api/settings/gemini-key
// Response: 204 No Content on success
func (h *SettingsHandler) DeleteGeminiKey(w http.ResponseWriter, _ *http.Request) {
	if err := h.settingsService.DeleteGeminiKey(); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
