package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind discriminates the transaction variants. A buy or sell
// carries Quantity and Price; a dividend carries only Amount. Construction
// goes through NewBuy/NewSell/NewDividend so a dividend can never end up
// with a phantom quantity.
type TransactionKind string

const (
	KindBuy      TransactionKind = "buy"
	KindSell     TransactionKind = "sell"
	KindDividend TransactionKind = "dividend"
)

// Transaction is an immutable event belonging to exactly one holding.
// Instances are never mutated after creation; the ledger only appends them
// or, for a manual correction, replaces a holding's history wholesale.
type Transaction struct {
	ID        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Date      time.Time       `json:"date"`
	Quantity  float64         `json:"quantity,omitempty"` // buy/sell only
	Price     float64         `json:"price,omitempty"`    // buy/sell per-unit price
	Amount    float64         `json:"amount"`             // buy: cost, sell: proceeds, dividend: cash amount
	CreatedAt time.Time       `json:"createdAt,omitempty"`
}

// NewBuy creates a buy transaction. Amount is the total cost (quantity * price).
func NewBuy(quantity, price float64, date time.Time) Transaction {
	return Transaction{
		ID:        uuid.New().String(),
		Kind:      KindBuy,
		Date:      date,
		Quantity:  quantity,
		Price:     price,
		Amount:    quantity * price,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSell creates a sell transaction. Amount is the total proceeds.
func NewSell(quantity, price float64, date time.Time) Transaction {
	return Transaction{
		ID:        uuid.New().String(),
		Kind:      KindSell,
		Date:      date,
		Quantity:  quantity,
		Price:     price,
		Amount:    quantity * price,
		CreatedAt: time.Now().UTC(),
	}
}

// NewDividend creates a dividend transaction for a cash amount.
func NewDividend(amount float64, date time.Time) Transaction {
	return Transaction{
		ID:        uuid.New().String(),
		Kind:      KindDividend,
		Date:      date,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
