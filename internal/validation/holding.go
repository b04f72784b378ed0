package validation

import (
	"strings"
	"time"

	"github.com/umair4234/psx-portfolio-tracker/internal/api/request"
)

// ValidateCreateHolding validates a single-purchase request.
//
// Required fields:
//   - ticker: 1-12 alphanumeric characters
//   - quantity: positive number
//   - price: positive number
//   - date: YYYY-MM-DD if provided (defaults to today when empty)
func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	if err := ValidateTicker(req.Ticker); err != nil {
		errors["ticker"] = "must be 1-12 alphanumeric characters"
	}
	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}
	if req.Price <= 0 {
		errors["price"] = "price must be positive"
	}
	if err := validateOptionalDate(req.Date); err != "" {
		errors["date"] = err
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSell validates a sell request body. The held-quantity check
// happens in the service against the loaded ledger; here only shape is
// verified.
func ValidateSell(req request.SellRequest) error {
	errors := make(map[string]string)

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}
	if req.Price <= 0 {
		errors["price"] = "price must be positive"
	}
	if err := validateOptionalDate(req.Date); err != "" {
		errors["date"] = err
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateDividend validates a dividend request body.
func ValidateDividend(req request.DividendRequest) error {
	errors := make(map[string]string)

	if req.Amount <= 0 {
		errors["amount"] = "amount must be positive"
	}
	if err := validateOptionalDate(req.Date); err != "" {
		errors["date"] = err
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateHolding validates a manual correction request.
func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.TotalQuantity <= 0 {
		errors["totalQuantity"] = "totalQuantity must be positive"
	}
	if req.AveragePrice <= 0 {
		errors["averagePrice"] = "averagePrice must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateBulkImport validates a bulk import request. Individual lines are
// allowed to be malformed (the parser skips them); only an entirely empty
// body is rejected here.
func ValidateBulkImport(req request.BulkImportRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return &Error{Fields: map[string]string{"text": "import text is required"}}
	}
	return nil
}

func validateOptionalDate(date string) string {
	if strings.TrimSpace(date) == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "must be YYYY-MM-DD"
	}
	return ""
}
