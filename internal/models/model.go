package models

import "time"

// AuctionStatus is the lifecycle state of an auction listing. Only the
// active -> sold/unsold transitions are driven by this engine; the draft
// and review states belong to the moderation workflow.
type AuctionStatus string

const (
	AuctionDraft         AuctionStatus = "draft"
	AuctionPendingReview AuctionStatus = "pending_review"
	AuctionActive        AuctionStatus = "active"
	AuctionSold          AuctionStatus = "sold"
	AuctionUnsold        AuctionStatus = "unsold"
	AuctionRejected      AuctionStatus = "rejected"
)

// ValidAuctionStatus reports whether s is a known lifecycle state
func ValidAuctionStatus(s AuctionStatus) bool {
	switch s {
	case AuctionDraft, AuctionPendingReview, AuctionActive, AuctionSold, AuctionUnsold, AuctionRejected:
		return true
	default:
		return false
	}
}

// BidStatus marks a ledger entry as counting toward the price or not.
// Voided bids stay in the ledger for audit; they are never deleted.
type BidStatus string

const (
	BidValid  BidStatus = "valid"
	BidVoided BidStatus = "voided"
)

// Auction represents a heavy-equipment listing under time-boxed bidding.
// All price fields are integer minor currency units. Version is the
// optimistic-concurrency token checked by the store on every write.
type Auction struct {
	AuctionID     string        `json:"auction_id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	SellerID      string        `json:"seller_id"`
	Status        AuctionStatus `json:"status"`
	StartingPrice int64         `json:"starting_price"`
	ReservePrice  int64         `json:"reserve_price"`
	CurrentPrice  int64         `json:"current_price"`
	MinIncrement  int64         `json:"min_increment"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	IsExtended    bool          `json:"is_extended"`
	WinnerID      string        `json:"winner_id,omitempty"`
	Version       int64         `json:"-"`
}

// MinimumBid returns the smallest amount the next bid must reach
func (a Auction) MinimumBid() int64 {
	return a.CurrentPrice + a.MinIncrement
}

// Bid is one accepted entry in an auction's ledger. CreatedAt is the
// server-assigned receipt instant; ledger order and the settlement
// tie-break are defined by it, never by client-supplied time.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the slice of the identity/KYC collaborator this engine
// reads: whether the caller exists, may bid, and may run admin paths
type Profile struct {
	UserID   string `json:"user_id"`
	Verified bool   `json:"verified"`
	Admin    bool   `json:"admin"`
}
