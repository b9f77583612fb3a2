package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID string `json:"auction_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

type VoidBidRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type AuctionResponse struct {
	AuctionID     string `json:"auction_id"`
	Title         string `json:"title"`
	SellerID      string `json:"seller_id"`
	Status        string `json:"status"`
	StartingPrice int64  `json:"starting_price"`
	CurrentPrice  int64  `json:"current_price"`
	MinIncrement  int64  `json:"min_increment"`
	MinimumBid    int64  `json:"minimum_bid"`
	EndTime       string `json:"end_time"`
	IsExtended    bool   `json:"is_extended"`
	WinnerID      string `json:"winner_id,omitempty"`
}

type SettleResponse struct {
	Settled int `json:"settled"`
}
