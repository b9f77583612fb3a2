package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// PostgresStore is the durable AuctionStore backed by pgx. The version
// column on auctions carries the optimistic-concurrency token: every
// update is conditioned on it and bumps it by one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the schema exists
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// ensureSchema creates the auctions and bids tables if missing
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS auctions (
			auction_id     TEXT PRIMARY KEY,
			title          TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			seller_id      TEXT NOT NULL,
			status         TEXT NOT NULL,
			starting_price BIGINT NOT NULL,
			reserve_price  BIGINT NOT NULL,
			current_price  BIGINT NOT NULL,
			min_increment  BIGINT NOT NULL,
			start_time     TIMESTAMPTZ NOT NULL,
			end_time       TIMESTAMPTZ NOT NULL,
			is_extended    BOOLEAN NOT NULL DEFAULT FALSE,
			winner_id      TEXT NOT NULL DEFAULT '',
			version        BIGINT NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_auctions_expiry ON auctions (status, end_time)`,
		`CREATE TABLE IF NOT EXISTS bids (
			bid_id     TEXT PRIMARY KEY,
			auction_id TEXT NOT NULL REFERENCES auctions (auction_id),
			bidder_id  TEXT NOT NULL,
			amount     BIGINT NOT NULL,
			status     TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_auction ON bids (auction_id, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}

const auctionColumns = `auction_id, title, description, seller_id, status,
	starting_price, reserve_price, current_price, min_increment,
	start_time, end_time, is_extended, winner_id, version`

func scanAuction(row pgx.Row) (model.Auction, error) {
	var a model.Auction
	var status string
	err := row.Scan(&a.AuctionID, &a.Title, &a.Description, &a.SellerID, &status,
		&a.StartingPrice, &a.ReservePrice, &a.CurrentPrice, &a.MinIncrement,
		&a.StartTime, &a.EndTime, &a.IsExtended, &a.WinnerID, &a.Version)
	if err != nil {
		return model.Auction{}, err
	}
	a.Status = model.AuctionStatus(status)
	return a, nil
}

// GetAuction returns the auction record by ID
func (s *PostgresStore) GetAuction(auctionID string) (model.Auction, error) {
	ctx := context.Background()
	row := s.pool.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE auction_id = $1`, auctionID)
	a, err := scanAuction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w: %v", auctionID, auctionerrors.ErrStorage, err)
	}
	return a, nil
}

// GetBid returns a single ledger entry by ID
func (s *PostgresStore) GetBid(bidID string) (model.Bid, error) {
	ctx := context.Background()
	var b model.Bid
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT bid_id, auction_id, bidder_id, amount, status, created_at
		 FROM bids WHERE bid_id = $1`, bidID).
		Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}
	if err != nil {
		return model.Bid{}, fmt.Errorf("get bid %s: %w: %v", bidID, auctionerrors.ErrStorage, err)
	}
	b.Status = model.BidStatus(status)
	return b, nil
}

// GetBidsByAuction returns the auction's full ledger in receipt order
func (s *PostgresStore) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	ctx := context.Background()
	rows, err := s.pool.Query(ctx,
		`SELECT bid_id, auction_id, bidder_id, amount, status, created_at
		 FROM bids WHERE auction_id = $1 ORDER BY created_at, bid_id`, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w: %v", auctionID, auctionerrors.ErrStorage, err)
	}
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		var b model.Bid
		var status string
		if err := rows.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &b.Amount, &status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("get bids for auction %s: %w: %v", auctionID, auctionerrors.ErrStorage, err)
		}
		b.Status = model.BidStatus(status)
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w: %v", auctionID, auctionerrors.ErrStorage, err)
	}
	return bids, nil
}

// ListExpiredAuctions pages through active auctions past their end time
func (s *PostgresStore) ListExpiredAuctions(cutoff time.Time, afterID string, limit int) ([]model.Auction, error) {
	ctx := context.Background()
	rows, err := s.pool.Query(ctx,
		`SELECT `+auctionColumns+` FROM auctions
		 WHERE status = $1 AND end_time <= $2 AND auction_id > $3
		 ORDER BY auction_id LIMIT $4`,
		string(model.AuctionActive), cutoff, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired auctions: %w: %v", auctionerrors.ErrStorage, err)
	}
	defer rows.Close()

	expired := make([]model.Auction, 0)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("list expired auctions: %w: %v", auctionerrors.ErrStorage, err)
		}
		expired = append(expired, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expired auctions: %w: %v", auctionerrors.ErrStorage, err)
	}
	return expired, nil
}

// PlaceBid appends the bid and writes the updated auction in one transaction
func (s *PostgresStore) PlaceBid(auction model.Auction, bid model.Bid) error {
	ctx := context.Background()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("place bid on auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE auctions
		 SET current_price = $1, end_time = $2, is_extended = $3, version = version + 1
		 WHERE auction_id = $4 AND version = $5`,
		auction.CurrentPrice, auction.EndTime, auction.IsExtended, auction.AuctionID, auction.Version)
	if err != nil {
		return fmt.Errorf("place bid on auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("place bid on auction %s: %w", auction.AuctionID, s.missingOrConflict(ctx, auction.AuctionID))
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bids (bid_id, auction_id, bidder_id, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		bid.BidID, bid.AuctionID, bid.BidderID, bid.Amount, string(bid.Status), bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("place bid on auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("place bid on auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrStorage, err)
	}
	return nil
}

// CloseAuction writes the terminal transition, guarded on the row still
// being active at write time
func (s *PostgresStore) CloseAuction(auction model.Auction) error {
	ctx := context.Background()
	tag, err := s.pool.Exec(ctx,
		`UPDATE auctions
		 SET status = $1, winner_id = $2, version = version + 1
		 WHERE auction_id = $3 AND version = $4 AND status = $5`,
		string(auction.Status), auction.WinnerID, auction.AuctionID, auction.Version,
		string(model.AuctionActive))
	if err != nil {
		return fmt.Errorf("close auction %s: %w: %v", auction.AuctionID, auctionerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close auction %s: %w", auction.AuctionID, s.missingOrConflict(ctx, auction.AuctionID))
	}
	return nil
}

// VoidBid flips the bid and writes the repriced auction in one transaction
func (s *PostgresStore) VoidBid(bidID string, auction model.Auction) error {
	ctx := context.Background()
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("void bid %s: %w: %v", bidID, auctionerrors.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE bids SET status = $1 WHERE bid_id = $2`, string(model.BidVoided), bidID)
	if err != nil {
		return fmt.Errorf("void bid %s: %w: %v", bidID, auctionerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("void bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}

	tag, err = tx.Exec(ctx,
		`UPDATE auctions SET current_price = $1, version = version + 1
		 WHERE auction_id = $2 AND version = $3`,
		auction.CurrentPrice, auction.AuctionID, auction.Version)
	if err != nil {
		return fmt.Errorf("void bid %s: %w: %v", bidID, auctionerrors.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("void bid %s: %w", bidID, s.missingOrConflict(ctx, auction.AuctionID))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("void bid %s: %w: %v", bidID, auctionerrors.ErrStorage, err)
	}
	return nil
}

// missingOrConflict distinguishes a zero-row conditioned update between the
// auction being absent and its version token having moved
func (s *PostgresStore) missingOrConflict(ctx context.Context, auctionID string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM auctions WHERE auction_id = $1)`, auctionID).Scan(&exists)
	if err != nil || exists {
		return auctionerrors.ErrVersionConflict
	}
	return auctionerrors.ErrAuctionNotFound
}
