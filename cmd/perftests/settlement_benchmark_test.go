package perftests

import (
	"fmt"
	"testing"
	"time"

	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/settlement"
)

// Benchmark: one settlement sweep over a backlog of expired auctions,
// each carrying a small ledger
func Benchmark_SettleExpiredAuctions(b *testing.B) {
	now := time.Now().UTC()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		store := repository.NewMemoryStore()
		for j := 0; j < 500; j++ {
			auctionID := fmt.Sprintf("auction_%d", j)
			store.AddAuction(model.Auction{
				AuctionID:     auctionID,
				SellerID:      "seller",
				Status:        model.AuctionActive,
				StartingPrice: 1000,
				ReservePrice:  1500,
				CurrentPrice:  1000,
				MinIncrement:  100,
				StartTime:     now.Add(-24 * time.Hour),
				EndTime:       now.Add(-time.Minute),
			})
			for k := 0; k < 4; k++ {
				a, err := store.GetAuction(auctionID)
				if err != nil {
					b.Fatalf("failed to load auction: %v", err)
				}
				a.CurrentPrice = int64(2000 + 100*k)
				err = store.PlaceBid(a, model.Bid{
					BidID:     fmt.Sprintf("bid_%d_%d", j, k),
					AuctionID: auctionID,
					BidderID:  fmt.Sprintf("bidder_%d", k),
					Amount:    a.CurrentPrice,
					Status:    model.BidValid,
					CreatedAt: now.Add(-time.Duration(60-k) * time.Minute),
				})
				if err != nil {
					b.Fatalf("failed to seed bid: %v", err)
				}
			}
		}
		settler := settlement.NewSettler(store, noopAudit{})
		b.StartTimer()

		if settled := settler.SettleExpiredAuctions(); settled != 500 {
			b.Fatalf("expected 500 settlements, got %d", settled)
		}
	}
}
