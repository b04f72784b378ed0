package service_test

import (
	"errors"
	"testing"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
	"github.com/umair4234/psx-portfolio-tracker/internal/service"
	"github.com/umair4234/psx-portfolio-tracker/internal/testutil"
)

// TestSettingsService_GeminiKey tests API key storage.
//
// WHY: The key is encrypted at rest; the round trip proves encryption and
// decryption agree, and the raw stored value must never equal the plaintext.
func TestSettingsService_GeminiKey(t *testing.T) {
	t.Run("set then get round-trips through encryption", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		if svc.HasGeminiKey() {
			t.Error("Expected no key before storing one")
		}

		if err := svc.SetGeminiKey("my-secret-key"); err != nil {
			t.Fatalf("SetGeminiKey() returned unexpected error: %v", err)
		}

		key, err := svc.GetGeminiKey()
		if err != nil {
			t.Fatalf("GetGeminiKey() returned unexpected error: %v", err)
		}
		if key != "my-secret-key" {
			t.Errorf("Expected decrypted key, got %q", key)
		}
		if !svc.HasGeminiKey() {
			t.Error("Expected HasGeminiKey() to report true")
		}

		// Raw stored value must be ciphertext, not the plaintext key.
		stored, err := repository.NewSettingRepository(db).GetSetting(service.GeminiKeySetting)
		if err != nil {
			t.Fatalf("GetSetting() returned unexpected error: %v", err)
		}
		if stored == "my-secret-key" {
			t.Error("API key stored in plaintext")
		}
	})

	t.Run("get of an unstored key returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		_, err := svc.GetGeminiKey()
		if !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("delete removes the key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSettingsService(t, db)

		if err := svc.SetGeminiKey("key"); err != nil {
			t.Fatalf("SetGeminiKey() failed: %v", err)
		}
		if err := svc.DeleteGeminiKey(); err != nil {
			t.Fatalf("DeleteGeminiKey() returned unexpected error: %v", err)
		}
		if svc.HasGeminiKey() {
			t.Error("Expected key gone after delete")
		}
	})

	t.Run("no encryption key disables API key storage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		svc, err := service.NewSettingsService(
			repository.NewSettingRepository(db),
			repository.NewOverrideRepository(db),
			"",
		)
		if err != nil {
			t.Fatalf("NewSettingsService() returned unexpected error: %v", err)
		}

		if err := svc.SetGeminiKey("key"); !errors.Is(err, apperrors.ErrProviderNotConfigured) {
			t.Errorf("Expected ErrProviderNotConfigured, got %v", err)
		}
		if svc.HasGeminiKey() {
			t.Error("Expected HasGeminiKey() false without encryption key")
		}
	})

	t.Run("invalid fernet key is rejected at construction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		_, err := service.NewSettingsService(
			repository.NewSettingRepository(db),
			repository.NewOverrideRepository(db),
			"not-a-valid-key",
		)
		if err == nil {
			t.Error("Expected error for invalid fernet key")
		}
	})
}

// TestSettingsService_Overrides tests override management through the
// service layer.
//
// WHY: Tickers must be normalized on the way in so the valuation lookup by
// normalized ticker finds them.
func TestSettingsService_Overrides(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSettingsService(t, db)

	if err := svc.SetOverride("  mebl ", "250"); err != nil {
		t.Fatalf("SetOverride() returned unexpected error: %v", err)
	}

	overrides, err := svc.GetOverrides()
	if err != nil {
		t.Fatalf("GetOverrides() returned unexpected error: %v", err)
	}
	if overrides["MEBL"] != "250" {
		t.Errorf("Expected normalized ticker key MEBL, got %v", overrides)
	}

	if err := svc.DeleteOverride("mebl"); err != nil {
		t.Fatalf("DeleteOverride() returned unexpected error: %v", err)
	}
	if err := svc.DeleteOverride("mebl"); !errors.Is(err, apperrors.ErrOverrideNotFound) {
		t.Errorf("Expected ErrOverrideNotFound on second delete, got %v", err)
	}
}
