package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/account-service/internal/domain"
)

// BidRepository stores passive bid records. Bids have no mutation surface
// beyond insertion; they are removed with their owner by the schema.
type BidRepository interface {
	Create(ctx context.Context, bid *domain.Bid) error
	ListByUser(ctx context.Context, userID string) ([]domain.Bid, error)
}

type bidRepository struct {
	pool *pgxpool.Pool
}

// NewBidRepository returns a Postgres-backed implementation.
func NewBidRepository(pool *pgxpool.Pool) BidRepository {
	return &bidRepository{pool: pool}
}

func (r *bidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	const query = `
        INSERT INTO bids (id, price, quantity, user_id, time_slot, day, iso, operation)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		bid.ID,
		bid.Price,
		bid.Quantity,
		bid.UserID,
		bid.TimeSlot,
		bid.Day,
		bid.ISO,
		bid.Operation,
	)
	return err
}

func (r *bidRepository) ListByUser(ctx context.Context, userID string) ([]domain.Bid, error) {
	const query = `
        SELECT id, price, quantity, user_id, time_slot, day, iso, operation
        FROM bids WHERE user_id=$1 ORDER BY day, time_slot`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]domain.Bid, 0)
	for rows.Next() {
		var bid domain.Bid
		if err := rows.Scan(
			&bid.ID,
			&bid.Price,
			&bid.Quantity,
			&bid.UserID,
			&bid.TimeSlot,
			&bid.Day,
			&bid.ISO,
			&bid.Operation,
		); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}
