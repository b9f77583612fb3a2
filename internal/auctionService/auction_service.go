package auction

import (
	"errors"
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

// SoftCloseWindow is the trailing window before the deadline inside which
// an accepted bid pushes the end time out to a full window from the bid's
// own receipt instant.
const SoftCloseWindow = 2 * time.Minute

// maxCommitAttempts bounds the internal retries on a version conflict
// before the failure is reported as a storage error.
const maxCommitAttempts = 3

// ProfileDirectory is the identity/KYC collaborator: given a caller id it
// reports whether the profile exists and its verification/admin flags.
type ProfileDirectory interface {
	Lookup(userID string) (model.Profile, error)
}

// AuditSink receives fire-and-forget audit/notification events strictly
// after a transaction commits. Its failures never roll anything back.
type AuditSink interface {
	Record(event string, details map[string]any)
}

// AuctionService implements the bidding and correction state machine
type AuctionService struct {
	store    repository.AuctionStore
	profiles ProfileDirectory
	audit    AuditSink
	now      func() time.Time
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore, profiles ProfileDirectory, audit AuditSink) *AuctionService {
	return &AuctionService{
		store:    store,
		profiles: profiles,
		audit:    audit,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PlaceBid validates and admits a single bid against an auction. On
// success the ledger append, the price update and any soft-close extension
// commit as one unit; a version conflict with a concurrent bid or a
// settlement run reloads the auction and retries the whole transaction.
func (s *AuctionService) PlaceBid(auctionID, bidderID string, amount int64) (model.Bid, error) {
	if bidderID == "" {
		return model.Bid{}, fmt.Errorf("service: place bid: %w", auctionerrors.ErrUnauthenticated)
	}
	if err := s.requireVerified(bidderID); err != nil {
		return model.Bid{}, err
	}

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		a, err := s.store.GetAuction(auctionID)
		if err != nil {
			return model.Bid{}, fmt.Errorf("service: place bid: %w", err)
		}

		now := s.now()
		if err := validateBid(a, bidderID, amount, now); err != nil {
			return model.Bid{}, err
		}

		bid := model.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    amount,
			Status:    model.BidValid,
			CreatedAt: now,
		}

		updated := a
		updated.CurrentPrice = amount
		if a.EndTime.Sub(now) < SoftCloseWindow {
			updated.EndTime = now.Add(SoftCloseWindow)
			updated.IsExtended = true
		}

		err = s.store.PlaceBid(updated, bid)
		if errors.Is(err, auctionerrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return model.Bid{}, fmt.Errorf("service: failed to record bid on auction %s by %s: %w", auctionID, bidderID, err)
		}

		s.audit.Record("bid.placed", map[string]any{
			"bid_id":     bid.BidID,
			"auction_id": auctionID,
			"bidder_id":  bidderID,
			"amount":     amount,
			"extended":   updated.IsExtended && !a.IsExtended,
		})
		return bid, nil
	}

	return model.Bid{}, fmt.Errorf("service: place bid on auction %s: retries exhausted: %w", auctionID, auctionerrors.ErrStorage)
}

// validateBid applies the acceptance preconditions in order; the first
// violation wins
func validateBid(a model.Auction, bidderID string, amount int64, now time.Time) error {
	if a.Status != model.AuctionActive {
		return fmt.Errorf("service: auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotActive)
	}
	if bidderID == a.SellerID {
		return fmt.Errorf("service: auction %s: %w", a.AuctionID, auctionerrors.ErrSelfBiddingForbidden)
	}
	if !now.Before(a.EndTime) {
		return fmt.Errorf("service: auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionEnded)
	}
	if minimum := a.MinimumBid(); amount < minimum {
		return fmt.Errorf("service: auction %s: %w", a.AuctionID, &auctionerrors.BidTooLowError{MinimumRequired: minimum})
	}
	return nil
}

// VoidBid marks a bid invalid and recomputes the auction's current price
// from the remaining valid bids, falling back to the starting price. The
// status flip and the reprice commit as one unit. Closed auctions are not
// reopened; status, winner and end time are untouched.
func (s *AuctionService) VoidBid(bidID, adminID, reason string) error {
	if adminID == "" {
		return fmt.Errorf("service: void bid: %w", auctionerrors.ErrUnauthenticated)
	}
	admin, err := s.profiles.Lookup(adminID)
	if err != nil && !errors.Is(err, auctionerrors.ErrProfileNotFound) {
		return fmt.Errorf("service: void bid: profile lookup for %s: %w", adminID, err)
	}
	if err != nil || !admin.Admin {
		return fmt.Errorf("service: void bid: %w", auctionerrors.ErrUnauthorized)
	}

	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		bid, err := s.store.GetBid(bidID)
		if err != nil {
			return fmt.Errorf("service: void bid: %w", err)
		}
		if bid.Status == model.BidVoided {
			return nil
		}

		a, err := s.store.GetAuction(bid.AuctionID)
		if err != nil {
			return fmt.Errorf("service: void bid %s: %w", bidID, err)
		}
		bids, err := s.store.GetBidsByAuction(bid.AuctionID)
		if err != nil {
			return fmt.Errorf("service: void bid %s: %w", bidID, err)
		}

		previousTop := a.CurrentPrice
		updated := a
		updated.CurrentPrice = topValidAmount(bids, bidID, a.StartingPrice)

		err = s.store.VoidBid(bidID, updated)
		if errors.Is(err, auctionerrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("service: void bid %s: %w", bidID, err)
		}

		s.audit.Record("bid.voided", map[string]any{
			"bid_id":        bidID,
			"auction_id":    bid.AuctionID,
			"admin_id":      adminID,
			"reason":        reason,
			"previous_top":  previousTop,
			"current_price": updated.CurrentPrice,
		})
		return nil
	}

	return fmt.Errorf("service: void bid %s: retries exhausted: %w", bidID, auctionerrors.ErrStorage)
}

// topValidAmount returns the highest amount among valid bids, skipping the
// bid being voided, or fallback when none remain
func topValidAmount(bids []model.Bid, excludeBidID string, fallback int64) int64 {
	top := fallback
	for _, b := range bids {
		if b.BidID == excludeBidID || b.Status != model.BidValid {
			continue
		}
		if b.Amount > top {
			top = b.Amount
		}
	}
	return top
}

// GetAuction returns the auction snapshot for read endpoints
func (s *AuctionService) GetAuction(auctionID string) (model.Auction, error) {
	if auctionID == "" {
		return model.Auction{}, fmt.Errorf("service: %w: empty auction ID", auctionerrors.ErrAuctionNotFound)
	}
	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// GetBidsForAuction returns the auction's ledger in receipt order
func (s *AuctionService) GetBidsForAuction(auctionID string) ([]model.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w: empty auction ID", auctionerrors.ErrAuctionNotFound)
	}
	bids, err := s.store.GetBidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// requireVerified enforces the bidder eligibility precondition
func (s *AuctionService) requireVerified(bidderID string) error {
	p, err := s.profiles.Lookup(bidderID)
	if errors.Is(err, auctionerrors.ErrProfileNotFound) {
		return fmt.Errorf("service: bidder %s: %w", bidderID, auctionerrors.ErrVerificationRequired)
	}
	if err != nil {
		return fmt.Errorf("service: profile lookup for %s: %w", bidderID, err)
	}
	if !p.Verified {
		return fmt.Errorf("service: bidder %s: %w", bidderID, auctionerrors.ErrVerificationRequired)
	}
	return nil
}
