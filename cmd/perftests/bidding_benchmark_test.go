package perftests

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	auction "auction-engine/internal/auctionService"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
)

func benchStack(numAuctions int) (*repository.MemoryStore, *auction.AuctionService) {
	store := repository.NewMemoryStore()
	profiles := auction.NewStaticProfileDirectory()

	now := time.Now().UTC()
	for i := 0; i < numAuctions; i++ {
		store.AddAuction(model.Auction{
			AuctionID:     fmt.Sprintf("auction_%d", i),
			SellerID:      "seller",
			Status:        model.AuctionActive,
			StartingPrice: 1000,
			ReservePrice:  1000,
			CurrentPrice:  1000,
			MinIncrement:  1,
			StartTime:     now,
			EndTime:       now.Add(24 * time.Hour),
		})
	}

	profiles.Add(model.Profile{UserID: "seller", Verified: true})
	for i := 0; i < 1024; i++ {
		profiles.Add(model.Profile{UserID: fmt.Sprintf("bidder_%d", i), Verified: true})
	}

	return store, auction.NewAuctionService(store, profiles, noopAudit{})
}

type noopAudit struct{}

func (noopAudit) Record(string, map[string]any) {}

// Benchmark 1: PlaceBid across independent auctions (low contention)
func Benchmark_PlaceBid_Isolated(b *testing.B) {
	_, svc := benchStack(b.N)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		auctionID := fmt.Sprintf("auction_%d", i)
		bidderID := fmt.Sprintf("bidder_%d", i%1024)
		if _, err := svc.PlaceBid(auctionID, bidderID, 2000); err != nil {
			b.Fatalf("failed to place bid: %v", err)
		}
	}
}

// Benchmark 2: PlaceBid on one shared auction (high contention). Version
// conflicts and outbid rejections are part of the measured workload; the
// benchmark tracks how many bids actually land.
func Benchmark_PlaceBid_ConcurrentSharedAuction(b *testing.B) {
	_, svc := benchStack(1)

	var nextAmount int64 = 2000
	var accepted int64

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			amount := atomic.AddInt64(&nextAmount, 10)
			bidderID := fmt.Sprintf("bidder_%d", i%1024)
			if _, err := svc.PlaceBid("auction_0", bidderID, amount); err == nil {
				atomic.AddInt64(&accepted, 1)
			}
			i++
		}
	})

	b.StopTimer()
	b.ReportMetric(float64(accepted)/float64(b.N), "accepted/op")
}

// Benchmark 3: ledger readback while the auction is hot
func Benchmark_GetBidsForAuction(b *testing.B) {
	_, svc := benchStack(1)

	for i := 0; i < 512; i++ {
		bidderID := fmt.Sprintf("bidder_%d", i%1024)
		if _, err := svc.PlaceBid("auction_0", bidderID, int64(2000+i)); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.GetBidsForAuction("auction_0"); err != nil {
			b.Fatalf("failed to read ledger: %v", err)
		}
	}
}
