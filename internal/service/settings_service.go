package service

import (
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
)

// GeminiKeySetting is the system_setting key storing the encrypted Gemini
// API key.
const GeminiKeySetting = "gemini_api_key"

// SettingsService manages manual price overrides and system settings.
// Provider API keys are encrypted at rest with a fernet key from the
// environment; everything else is stored in the clear.
type SettingsService struct {
	settingRepo  *repository.SettingRepository
	overrideRepo *repository.OverrideRepository
	fernetKeys   []*fernet.Key
}

// NewSettingsService creates a new SettingsService. fernetKey may be empty,
// in which case API keys cannot be stored and the settings endpoint reports
// the provider as unconfigured.
func NewSettingsService(
	settingRepo *repository.SettingRepository,
	overrideRepo *repository.OverrideRepository,
	fernetKey string,
) (*SettingsService, error) {
	s := &SettingsService{
		settingRepo:  settingRepo,
		overrideRepo: overrideRepo,
	}

	if fernetKey != "" {
		keys, err := fernet.DecodeKeys(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid fernet key: %w", err)
		}
		s.fernetKeys = keys
	}

	return s, nil
}

// GetOverrides returns all manual price overrides as entered.
func (s *SettingsService) GetOverrides() (map[string]string, error) {
	overrides, err := s.overrideRepo.GetOverrides()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadOverrides, err)
	}
	return overrides, nil
}

// SetOverride stores a manual price override for a ticker, exactly as
// entered. Non-numeric values are accepted; valuation ignores them.
func (s *SettingsService) SetOverride(ticker, value string) error {
	return s.overrideRepo.SetOverride(model.NormalizeTicker(ticker), value)
}

// DeleteOverride removes a ticker's manual price override.
func (s *SettingsService) DeleteOverride(ticker string) error {
	return s.overrideRepo.DeleteOverride(model.NormalizeTicker(ticker))
}

// SetGeminiKey encrypts and stores the Gemini API key.
func (s *SettingsService) SetGeminiKey(apiKey string) error {
	if len(s.fernetKeys) == 0 {
		return apperrors.ErrProviderNotConfigured
	}

	token, err := fernet.EncryptAndSign([]byte(apiKey), s.fernetKeys[0])
	if err != nil {
		return fmt.Errorf("failed to encrypt API key: %w", err)
	}

	return s.settingRepo.SetSetting(GeminiKeySetting, string(token))
}

// GetGeminiKey decrypts and returns the stored Gemini API key. Returns
// apperrors.ErrSettingNotFound when no key has been stored.
func (s *SettingsService) GetGeminiKey() (string, error) {
	if len(s.fernetKeys) == 0 {
		return "", apperrors.ErrProviderNotConfigured
	}

	token, err := s.settingRepo.GetSetting(GeminiKeySetting)
	if err != nil {
		return "", err
	}

	// TTL 0 disables token expiry; the key is valid until replaced.
	plain := fernet.VerifyAndDecrypt([]byte(token), 0, s.fernetKeys)
	if plain == nil {
		return "", fmt.Errorf("%w: stored API key failed verification", apperrors.ErrFailedToLoadSettings)
	}

	return string(plain), nil
}

// HasGeminiKey reports whether an API key is stored without revealing it.
func (s *SettingsService) HasGeminiKey() bool {
	if len(s.fernetKeys) == 0 {
		return false
	}
	_, err := s.settingRepo.GetSetting(GeminiKeySetting)
	return err == nil
}

// DeleteGeminiKey removes the stored API key.
func (s *SettingsService) DeleteGeminiKey() error {
	return s.settingRepo.DeleteSetting(GeminiKeySetting)
}
