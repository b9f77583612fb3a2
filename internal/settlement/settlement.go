package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// settlePageSize bounds how many expired auctions one scan page loads
const settlePageSize = 100

// maxCloseAttempts bounds retries when a terminal write races a late bid
const maxCloseAttempts = 3

// Settler transitions expired active auctions to their terminal status.
// It is safe to run concurrently with bidding and with itself: the
// conditioned terminal write in the store means a losing run observes a
// conflict, reloads, and no-ops once the auction is no longer active.
type Settler struct {
	store repository.AuctionStore
	audit auction.AuditSink
	now   func() time.Time
}

// NewSettler creates a new Settler instance
func NewSettler(store repository.AuctionStore, audit auction.AuditSink) *Settler {
	return &Settler{
		store: store,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SettleExpiredAuctions scans for active auctions past their end time and
// settles each one in its own failure-isolated unit. Errors are logged and
// the batch continues. Returns the number of terminal transitions this
// call performed.
func (s *Settler) SettleExpiredAuctions() int {
	settled := 0
	cutoff := s.now()
	afterID := ""

	for {
		page, err := s.store.ListExpiredAuctions(cutoff, afterID, settlePageSize)
		if err != nil {
			utils.Error("settlement: failed to list expired auctions", map[string]any{
				"after_id": afterID,
				"error":    err.Error(),
			})
			return settled
		}
		if len(page) == 0 {
			return settled
		}

		for _, a := range page {
			closed, err := s.settleOne(a.AuctionID)
			if err != nil {
				utils.Error("settlement: failed to settle auction", map[string]any{
					"auction_id": a.AuctionID,
					"error":      err.Error(),
				})
				continue
			}
			if closed {
				settled++
			}
		}

		afterID = page[len(page)-1].AuctionID
		if len(page) < settlePageSize {
			return settled
		}
	}
}

// settleOne loads the auction's valid bids, decides sold vs unsold, picks
// the winner and writes the terminal transition. Returns false without
// error when the auction turned out to need no settlement (already closed
// by a concurrent run, or its deadline pushed out by a late bid).
func (s *Settler) settleOne(auctionID string) (bool, error) {
	for attempt := 0; attempt < maxCloseAttempts; attempt++ {
		a, err := s.store.GetAuction(auctionID)
		if err != nil {
			return false, err
		}
		if a.Status != model.AuctionActive || a.EndTime.After(s.now()) {
			return false, nil
		}

		bids, err := s.store.GetBidsByAuction(auctionID)
		if err != nil {
			return false, err
		}

		updated := a
		winner, hasBids := winningBid(bids)
		if hasBids && a.CurrentPrice >= a.ReservePrice {
			updated.Status = model.AuctionSold
			updated.WinnerID = winner.BidderID
		} else {
			updated.Status = model.AuctionUnsold
		}

		err = s.store.CloseAuction(updated)
		if errors.Is(err, auctionerrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return false, err
		}

		s.audit.Record("auction.settled", map[string]any{
			"auction_id":  auctionID,
			"status":      string(updated.Status),
			"winner_id":   updated.WinnerID,
			"final_price": updated.CurrentPrice,
			"bid_count":   len(bids),
		})
		return true, nil
	}
	return false, fmt.Errorf("settle auction %s: retries exhausted: %w", auctionID, auctionerrors.ErrStorage)
}

// winningBid selects the winner among valid bids: highest amount, earliest
// receipt time on ties. The second return is false when no valid bids exist.
func winningBid(bids []model.Bid) (model.Bid, bool) {
	var winner model.Bid
	found := false
	for _, b := range bids {
		if b.Status != model.BidValid {
			continue
		}
		if !found || b.Amount > winner.Amount ||
			(b.Amount == winner.Amount && b.CreatedAt.Before(winner.CreatedAt)) {
			winner = b
			found = true
		}
	}
	return winner, found
}

// Run invokes SettleExpiredAuctions on a fixed cadence until the context
// is cancelled
func (s *Settler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.Info("settlement: scheduler started", map[string]any{"interval": interval.String()})
	for {
		select {
		case <-ctx.Done():
			utils.Info("settlement: scheduler stopped", nil)
			return
		case <-ticker.C:
			if n := s.SettleExpiredAuctions(); n > 0 {
				utils.Info("settlement: sweep complete", map[string]any{"settled": n})
			}
		}
	}
}
