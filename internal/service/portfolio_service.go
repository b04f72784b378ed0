package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/apperrors"
	"github.com/umair4234/psx-portfolio-tracker/internal/ledger"
	"github.com/umair4234/psx-portfolio-tracker/internal/model"
	"github.com/umair4234/psx-portfolio-tracker/internal/repository"
)

// LastRefreshedKey is the system_setting key holding the RFC3339 timestamp
// of the last successful quote refresh.
const LastRefreshedKey = "last_refreshed"

// PortfolioService handles ledger business logic. Every mutation follows the
// same shape: load the full ledger, apply a pure ledger function, persist
// the result atomically. The service owns the error translation that the
// ledger functions deliberately avoid (guarded no-ops there become typed
// errors here).
type PortfolioService struct {
	holdingRepo  *repository.HoldingRepository
	snapshotRepo *repository.SnapshotRepository
	overrideRepo *repository.OverrideRepository
	settingRepo  *repository.SettingRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	holdingRepo *repository.HoldingRepository,
	snapshotRepo *repository.SnapshotRepository,
	overrideRepo *repository.OverrideRepository,
	settingRepo *repository.SettingRepository,
) *PortfolioService {
	return &PortfolioService{
		holdingRepo:  holdingRepo,
		snapshotRepo: snapshotRepo,
		overrideRepo: overrideRepo,
		settingRepo:  settingRepo,
	}
}

// GetPortfolio retrieves the complete ledger: all holdings with transaction
// histories, the value history, and the last refresh timestamp.
func (s *PortfolioService) GetPortfolio() (model.Portfolio, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadPortfolio, err)
	}

	history, err := s.snapshotRepo.GetSnapshots()
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadHistory, err)
	}

	portfolio := model.Portfolio{Holdings: holdings, History: history}

	if stamp, err := s.settingRepo.GetSetting(LastRefreshedKey); err == nil {
		if parsed, err := time.Parse(time.RFC3339, stamp); err == nil {
			portfolio.LastRefreshed = &parsed
		}
	}

	return portfolio, nil
}

// GetHoldings retrieves all holdings in insertion order.
func (s *PortfolioService) GetHoldings() ([]model.Holding, error) {
	holdings, err := s.holdingRepo.GetHoldings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadPortfolio, err)
	}
	return holdings, nil
}

// GetHolding retrieves one holding by ticker.
func (s *PortfolioService) GetHolding(ticker string) (model.Holding, error) {
	ticker = model.NormalizeTicker(ticker)

	holdings, err := s.GetHoldings()
	if err != nil {
		return model.Holding{}, err
	}
	for _, h := range holdings {
		if h.Ticker == ticker {
			return h, nil
		}
	}
	return model.Holding{}, apperrors.ErrHoldingNotFound
}

// GetTransactions retrieves the transaction history for one holding.
func (s *PortfolioService) GetTransactions(ticker string) ([]model.Transaction, error) {
	holding, err := s.GetHolding(ticker)
	if err != nil {
		return nil, err
	}
	return holding.Transactions, nil
}

// AddPurchase records a buy, creating the holding when the ticker is new.
// Returns the holding's post-purchase state.
func (s *PortfolioService) AddPurchase(ticker string, quantity, price float64, date string) (model.Holding, error) {
	ticker = model.NormalizeTicker(ticker)

	when, err := s.resolveDate(date)
	if err != nil {
		return model.Holding{}, err
	}

	holdings, err := s.GetHoldings()
	if err != nil {
		return model.Holding{}, err
	}

	payload := model.Holding{
		Ticker:       ticker,
		Transactions: []model.Transaction{model.NewBuy(quantity, price, when)},
	}
	updated := ledger.AddHoldings(holdings, []model.Holding{payload}, false)

	if err := s.persistHoldings(updated); err != nil {
		return model.Holding{}, err
	}

	for _, h := range updated {
		if h.Ticker == ticker {
			return h, nil
		}
	}
	return model.Holding{}, apperrors.ErrHoldingNotFound
}

// Sell records a sale against an existing holding. Selling the full position
// removes the holding, history included.
func (s *PortfolioService) Sell(ticker string, quantity, price float64, date string) error {
	ticker = model.NormalizeTicker(ticker)

	when, err := s.resolveDate(date)
	if err != nil {
		return err
	}

	holdings, err := s.GetHoldings()
	if err != nil {
		return err
	}

	held, found := heldQuantity(holdings, ticker)
	if !found {
		return apperrors.ErrHoldingNotFound
	}
	if quantity > held+ledger.Epsilon {
		return apperrors.ErrInsufficientQuantity
	}

	updated := ledger.Sell(holdings, ticker, quantity, price, when)
	return s.persistHoldings(updated)
}

// AddDividend records a cash dividend against an existing holding.
func (s *PortfolioService) AddDividend(ticker string, amount float64, date string) error {
	ticker = model.NormalizeTicker(ticker)

	when, err := s.resolveDate(date)
	if err != nil {
		return err
	}

	holdings, err := s.GetHoldings()
	if err != nil {
		return err
	}

	if _, found := heldQuantity(holdings, ticker); !found {
		return apperrors.ErrHoldingNotFound
	}

	updated := ledger.AddDividend(holdings, ticker, amount, when)
	return s.persistHoldings(updated)
}

// UpdateHolding applies a manual correction: the holding's history is
// replaced by a single synthetic buy matching the given totals.
func (s *PortfolioService) UpdateHolding(ticker string, totalQuantity, averagePrice float64) (model.Holding, error) {
	ticker = model.NormalizeTicker(ticker)

	holdings, err := s.GetHoldings()
	if err != nil {
		return model.Holding{}, err
	}

	if _, found := heldQuantity(holdings, ticker); !found {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}

	updated := ledger.UpdateHolding(holdings, ticker, totalQuantity, averagePrice, time.Now())
	if err := s.persistHoldings(updated); err != nil {
		return model.Holding{}, err
	}

	for _, h := range updated {
		if h.Ticker == ticker {
			return h, nil
		}
	}
	return model.Holding{}, apperrors.ErrHoldingNotFound
}

// DeleteHolding removes a holding and its entire transaction history.
func (s *PortfolioService) DeleteHolding(ticker string) error {
	ticker = model.NormalizeTicker(ticker)

	holdings, err := s.GetHoldings()
	if err != nil {
		return err
	}

	updated := holdings[:0:0]
	found := false
	for _, h := range holdings {
		if h.Ticker == ticker {
			found = true
			continue
		}
		updated = append(updated, h)
	}
	if !found {
		return apperrors.ErrHoldingNotFound
	}

	return s.persistHoldings(updated)
}

// BulkImport parses free-form "TICKER QUANTITY PRICE [DATE]" text and merges
// the resulting purchases into the ledger. Malformed lines are skipped;
// returns the number of tickers that produced at least one transaction.
func (s *PortfolioService) BulkImport(text string) (int, error) {
	imported := ledger.ParseBulkImport(text, time.Now())
	if len(imported) == 0 {
		return 0, apperrors.ErrNothingImported
	}

	holdings, err := s.GetHoldings()
	if err != nil {
		return 0, err
	}

	updated := ledger.AddHoldings(holdings, imported, false)
	if err := s.persistHoldings(updated); err != nil {
		return 0, err
	}
	return len(imported), nil
}

// GetMetrics computes portfolio-level valuation and gain/loss figures from
// the current ledger and manual price overrides.
func (s *PortfolioService) GetMetrics() (model.PortfolioMetrics, error) {
	holdings, err := s.GetHoldings()
	if err != nil {
		return model.PortfolioMetrics{}, err
	}

	overrides, err := s.loadParsedOverrides()
	if err != nil {
		return model.PortfolioMetrics{}, err
	}

	return ledger.ComputeMetrics(holdings, overrides), nil
}

// GetAllocation computes the value-weighted sector allocation.
func (s *PortfolioService) GetAllocation() ([]model.SectorAllocation, error) {
	holdings, err := s.GetHoldings()
	if err != nil {
		return nil, err
	}

	overrides, err := s.loadParsedOverrides()
	if err != nil {
		return nil, err
	}

	return ledger.ComputeAllocation(holdings, overrides), nil
}

// GetHistory retrieves the daily portfolio-value history.
func (s *PortfolioService) GetHistory() ([]model.PortfolioSnapshot, error) {
	history, err := s.snapshotRepo.GetSnapshots()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadHistory, err)
	}
	return history, nil
}

// RecordSnapshot computes the portfolio's current value and records it under
// today's date. A same-day snapshot is replaced, last write wins.
func (s *PortfolioService) RecordSnapshot() (model.PortfolioSnapshot, error) {
	metrics, err := s.GetMetrics()
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	history, err := s.GetHistory()
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	updated := ledger.RecordSnapshot(history, metrics.CurrentValue, time.Now())
	if err := s.snapshotRepo.ReplaceSnapshots(updated); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSavePortfolio, err)
	}

	return updated[len(updated)-1], nil
}

// Export serializes the complete ledger to JSON for backup.
func (s *PortfolioService) Export() ([]byte, error) {
	portfolio, err := s.GetPortfolio()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(portfolio, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode portfolio: %w", err)
	}
	return data, nil
}

// ImportBackup restores the ledger from an exported backup, replacing all
// current holdings and history. The decoder is tolerant: unknown fields are
// ignored and derived fields are recomputed from the transaction histories;
// only a body without an array-shaped holdings field is rejected.
func (s *PortfolioService) ImportBackup(data []byte) error {
	var backup struct {
		Holdings []model.Holding           `json:"holdings"`
		History  []model.PortfolioSnapshot `json:"history"`
	}
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedBackup, err)
	}
	if backup.Holdings == nil {
		return apperrors.ErrMalformedBackup
	}

	// Backups from older exports may carry derived totals without
	// transaction rows; synthesize one buy so the history stays the
	// source of truth.
	for i := range backup.Holdings {
		h := &backup.Holdings[i]
		if len(h.Transactions) == 0 && h.Quantity > 0 {
			h.Transactions = []model.Transaction{
				model.NewBuy(h.Quantity, h.AverageBuyPrice, time.Now()),
			}
		}
	}

	restored := ledger.AddHoldings(nil, backup.Holdings, false)
	if err := s.persistHoldings(restored); err != nil {
		return err
	}

	history := backup.History
	if len(history) > ledger.MaxSnapshots {
		history = history[len(history)-ledger.MaxSnapshots:]
	}
	if err := s.snapshotRepo.ReplaceSnapshots(history); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToSavePortfolio, err)
	}

	return nil
}

func (s *PortfolioService) persistHoldings(holdings []model.Holding) error {
	if err := s.holdingRepo.ReplaceHoldings(holdings); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToSavePortfolio, err)
	}
	return nil
}

func (s *PortfolioService) loadParsedOverrides() (map[string]float64, error) {
	raw, err := s.overrideRepo.GetOverrides()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadOverrides, err)
	}
	return ledger.ParseOverrides(raw), nil
}

// resolveDate parses an optional YYYY-MM-DD date, defaulting to now.
func (s *PortfolioService) resolveDate(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	return repository.ParseTime(date)
}

func heldQuantity(holdings []model.Holding, normalizedTicker string) (float64, bool) {
	for _, h := range holdings {
		if h.Ticker == normalizedTicker {
			return h.Quantity, true
		}
	}
	return 0, false
}
