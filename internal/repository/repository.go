package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
)

// AuctionStore defines the auction and bid-ledger storage interface.
//
// Every mutating call carries the full post-mutation Auction whose Version
// field holds the version the caller read. The store applies the write only
// if the stored version still matches, bumping it by one; otherwise it
// returns ErrVersionConflict and the caller must reload and retry. This
// serializes writes per auction while leaving different auctions free to
// proceed in parallel.
type AuctionStore interface {
	GetAuction(auctionID string) (model.Auction, error)
	GetBid(bidID string) (model.Bid, error)
	GetBidsByAuction(auctionID string) ([]model.Bid, error)
	// ListExpiredAuctions returns up to limit active auctions with
	// endTime <= cutoff and auctionID > afterID, ordered by auctionID.
	ListExpiredAuctions(cutoff time.Time, afterID string, limit int) ([]model.Auction, error)
	// PlaceBid atomically appends bid to the ledger and writes the updated
	// auction record (price and, on soft close, end time).
	PlaceBid(auction model.Auction, bid model.Bid) error
	// CloseAuction writes the terminal status and winner. It additionally
	// requires the stored record to still be active, so a racing settlement
	// run observes a conflict rather than flipping the status twice.
	CloseAuction(auction model.Auction) error
	// VoidBid atomically flips the bid to voided and writes the auction's
	// recomputed current price.
	VoidBid(bidID string, auction model.Auction) error
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction
	bids     map[string]model.Bid
	ledger   map[string][]string // auctionID -> bid IDs in receipt order
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
		bids:     make(map[string]model.Bid),
		ledger:   make(map[string][]string),
	}
}

// AddAuction inserts or replaces an auction record, starting its version
// token at 1. Used for seeding and tests.
func (s *MemoryStore) AddAuction(a model.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Version = 1
	s.auctions[a.AuctionID] = a
}

// GetAuction returns the auction record by ID
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// GetBid returns a single ledger entry by ID
func (s *MemoryStore) GetBid(bidID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}
	return b, nil
}

// GetBidsByAuction returns the auction's full ledger in receipt order,
// voided entries included
func (s *MemoryStore) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}

	ids := s.ledger[auctionID]
	bids := make([]model.Bid, 0, len(ids))
	for _, id := range ids {
		bids = append(bids, s.bids[id])
	}
	return bids, nil
}

// ListExpiredAuctions pages through active auctions past their end time
func (s *MemoryStore) ListExpiredAuctions(cutoff time.Time, afterID string, limit int) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := make([]model.Auction, 0)
	for _, a := range s.auctions {
		if a.Status == model.AuctionActive && !a.EndTime.After(cutoff) && a.AuctionID > afterID {
			expired = append(expired, a)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].AuctionID < expired[j].AuctionID })
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

// PlaceBid appends the bid and writes the updated auction in one step
func (s *MemoryStore) PlaceBid(auction model.Auction, bid model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.casWrite(auction); err != nil {
		return fmt.Errorf("place bid on auction %s: %w", auction.AuctionID, err)
	}

	s.bids[bid.BidID] = bid
	s.ledger[auction.AuctionID] = append(s.ledger[auction.AuctionID], bid.BidID)
	return nil
}

// CloseAuction writes the terminal transition, guarded on the record still
// being active
func (s *MemoryStore) CloseAuction(auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.auctions[auction.AuctionID]
	if !ok {
		return fmt.Errorf("close auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if stored.Status != model.AuctionActive {
		return fmt.Errorf("close auction %s: %w", auction.AuctionID, auctionerrors.ErrVersionConflict)
	}
	if err := s.casWrite(auction); err != nil {
		return fmt.Errorf("close auction %s: %w", auction.AuctionID, err)
	}
	return nil
}

// VoidBid flips the bid to voided and writes the repriced auction in one step
func (s *MemoryStore) VoidBid(bidID string, auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bids[bidID]
	if !ok {
		return fmt.Errorf("void bid %s: %w", bidID, auctionerrors.ErrBidNotFound)
	}
	if err := s.casWrite(auction); err != nil {
		return fmt.Errorf("void bid %s: %w", bidID, err)
	}

	b.Status = model.BidVoided
	s.bids[bidID] = b
	return nil
}

// casWrite applies the auction write if the stored version still matches
// the version the caller read. Callers must hold the write lock.
func (s *MemoryStore) casWrite(auction model.Auction) error {
	stored, ok := s.auctions[auction.AuctionID]
	if !ok {
		return auctionerrors.ErrAuctionNotFound
	}
	if stored.Version != auction.Version {
		return auctionerrors.ErrVersionConflict
	}
	auction.Version++
	s.auctions[auction.AuctionID] = auction
	return nil
}
