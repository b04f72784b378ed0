package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/model"
)

// HoldingRepository provides data access methods for the holding and
// holding_transaction tables. The ledger is small (a personal portfolio),
// so reads load everything and writes replace everything inside a single
// database transaction; the pure ledger functions do the thinking in
// between.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetHoldings retrieves all holdings with their full transaction histories,
// in stored insertion order. Returns an empty slice for an empty portfolio.
func (s *HoldingRepository) GetHoldings() ([]model.Holding, error) {
	query := `
          SELECT ticker, name, sector, quantity, average_buy_price, total_investment,
                 current_price, day_change, data_source, overview
          FROM holding
          ORDER BY position
      `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	index := map[string]int{}

	for rows.Next() {
		var h model.Holding
		var name, sector, dataSource, overview sql.NullString
		var currentPrice, dayChange sql.NullFloat64

		err := rows.Scan(
			&h.Ticker,
			&name,
			&sector,
			&h.Quantity,
			&h.AverageBuyPrice,
			&h.TotalInvestment,
			&currentPrice,
			&dayChange,
			&dataSource,
			&overview,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}

		h.Name = name.String
		h.Sector = sector.String
		h.DataSource = dataSource.String
		if currentPrice.Valid {
			h.CurrentPrice = &currentPrice.Float64
		}
		if dayChange.Valid {
			h.DayChange = &dayChange.Float64
		}
		if overview.Valid && overview.String != "" {
			if err := json.Unmarshal([]byte(overview.String), &h.Overview); err != nil {
				return nil, fmt.Errorf("failed to decode overview for %s: %w", h.Ticker, err)
			}
		}
		h.Transactions = []model.Transaction{}

		index[h.Ticker] = len(holdings)
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	if err := s.attachTransactions(holdings, index); err != nil {
		return nil, err
	}

	return holdings, nil
}

// GetHoldingOnTicker retrieves a single holding (with transactions) by its
// normalized ticker.
func (s *HoldingRepository) GetHoldingOnTicker(ticker string) (model.Holding, error) {
	holdings, err := s.GetHoldings()
	if err != nil {
		return model.Holding{}, err
	}
	for _, h := range holdings {
		if h.Ticker == ticker {
			return h, nil
		}
	}
	return model.Holding{}, sql.ErrNoRows
}

func (s *HoldingRepository) attachTransactions(holdings []model.Holding, index map[string]int) error {
	query := `
          SELECT id, ticker, kind, date, quantity, price, amount, created_at
          FROM holding_transaction
          ORDER BY ticker, position
      `
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query holding_transaction table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Transaction
		var ticker, date string
		var createdAt sql.NullString

		err := rows.Scan(
			&t.ID,
			&ticker,
			&t.Kind,
			&date,
			&t.Quantity,
			&t.Price,
			&t.Amount,
			&createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan holding_transaction table results: %w", err)
		}

		if t.Date, err = ParseTime(date); err != nil {
			return fmt.Errorf("failed to parse transaction date for %s: %w", ticker, err)
		}
		if createdAt.Valid {
			if created, err := ParseTime(createdAt.String); err == nil {
				t.CreatedAt = created
			}
		}

		pos, ok := index[ticker]
		if !ok {
			// Orphaned row; foreign keys should prevent this.
			continue
		}
		holdings[pos].Transactions = append(holdings[pos].Transactions, t)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating holding_transaction table: %w", err)
	}

	return nil
}

// ReplaceHoldings atomically replaces the entire holdings table (and all
// transaction rows) with the given state. Insertion order is preserved via
// the position columns.
func (s *HoldingRepository) ReplaceHoldings(holdings []model.Holding) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM holding_transaction"); err != nil {
		return fmt.Errorf("failed to clear holding_transaction table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM holding"); err != nil {
		return fmt.Errorf("failed to clear holding table: %w", err)
	}

	holdingStmt, err := tx.Prepare(`
          INSERT INTO holding (ticker, name, sector, quantity, average_buy_price, total_investment,
                               current_price, day_change, data_source, overview, position)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      `)
	if err != nil {
		return fmt.Errorf("failed to prepare holding insert: %w", err)
	}
	defer holdingStmt.Close()

	txStmt, err := tx.Prepare(`
          INSERT INTO holding_transaction (id, ticker, kind, date, quantity, price, amount, position, created_at)
          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
      `)
	if err != nil {
		return fmt.Errorf("failed to prepare holding_transaction insert: %w", err)
	}
	defer txStmt.Close()

	for i, h := range holdings {
		var overview any
		if h.Overview != nil {
			encoded, err := json.Marshal(h.Overview)
			if err != nil {
				return fmt.Errorf("failed to encode overview for %s: %w", h.Ticker, err)
			}
			overview = string(encoded)
		}

		var currentPrice, dayChange any
		if h.CurrentPrice != nil {
			currentPrice = *h.CurrentPrice
		}
		if h.DayChange != nil {
			dayChange = *h.DayChange
		}

		_, err := holdingStmt.Exec(
			h.Ticker,
			h.Name,
			h.Sector,
			h.Quantity,
			h.AverageBuyPrice,
			h.TotalInvestment,
			currentPrice,
			dayChange,
			h.DataSource,
			overview,
			i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Ticker, err)
		}

		for j, t := range h.Transactions {
			_, err := txStmt.Exec(
				t.ID,
				h.Ticker,
				string(t.Kind),
				t.Date.Format("2006-01-02"),
				t.Quantity,
				t.Price,
				t.Amount,
				j,
				t.CreatedAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction for %s: %w", h.Ticker, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holdings replace: %w", err)
	}
	return nil
}
