package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType distinguishes buy and sell bids.
type OperationType string

const (
	OperationBuy  OperationType = "buy"
	OperationSell OperationType = "sell"
)

// Bid is a passive market-bid record owned by a user. It carries no
// behavior; the service only stores and lists it.
type Bid struct {
	ID        string
	Price     decimal.Decimal
	Quantity  int
	UserID    string
	TimeSlot  int
	Day       time.Time
	ISO       string
	Operation OperationType
}
