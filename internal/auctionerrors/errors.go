package auctionerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrProfileNotFound = errors.New("profile not found")
	// ErrVersionConflict is transient: the auction record changed between
	// read and write. Callers retry the whole transaction, bounded.
	ErrVersionConflict = errors.New("auction record version conflict")
	ErrStorage         = errors.New("storage failure")
)

// Business logic errors
var (
	ErrUnauthenticated      = errors.New("caller is not authenticated")
	ErrVerificationRequired = errors.New("bidder profile missing or not verified")
	ErrAuctionNotActive     = errors.New("auction is not active")
	ErrSelfBiddingForbidden = errors.New("sellers may not bid on their own listing")
	ErrAuctionEnded         = errors.New("auction has already ended")
	ErrBidTooLow            = errors.New("bid amount too low")
	ErrUnauthorized         = errors.New("caller is not an administrator")
)

// BidTooLowError carries the exact minimum the next bid must reach so a
// client can resubmit without another round trip. Matches ErrBidTooLow
// under errors.Is.
type BidTooLowError struct {
	MinimumRequired int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid amount too low: minimum required bid is %d", e.MinimumRequired)
}

func (e *BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}
