package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/account-service/internal/domain"
)

// BidResponse is the public view of a bid record.
type BidResponse struct {
	ID        string          `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	UserID    string          `json:"user_id"`
	TimeSlot  int             `json:"time_slot"`
	Day       time.Time       `json:"day"`
	ISO       string          `json:"iso"`
	Operation string          `json:"operation"`
}

// NewBidResponse maps a domain bid.
func NewBidResponse(bid *domain.Bid) BidResponse {
	return BidResponse{
		ID:        bid.ID,
		Price:     bid.Price,
		Quantity:  bid.Quantity,
		UserID:    bid.UserID,
		TimeSlot:  bid.TimeSlot,
		Day:       bid.Day,
		ISO:       bid.ISO,
		Operation: string(bid.Operation),
	}
}
