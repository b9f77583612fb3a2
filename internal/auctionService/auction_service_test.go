package auction

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func activeAuction(endTime time.Time) model.Auction {
	return model.Auction{
		AuctionID:     "auction1",
		SellerID:      "seller1",
		Status:        model.AuctionActive,
		StartingPrice: 1000,
		ReservePrice:  5000,
		CurrentPrice:  1000,
		MinIncrement:  100,
		StartTime:     testNow.Add(-24 * time.Hour),
		EndTime:       endTime,
		Version:       1,
	}
}

func verifiedProfile(userID string) model.Profile {
	return model.Profile{UserID: userID, Verified: true}
}

// Tests PlaceBid preconditions
func TestAuctionService_PlaceBid_Preconditions(t *testing.T) {
	tests := []struct {
		name          string
		bidderID      string
		amount        int64
		mockSetup     func(store *repository.MockAuctionStore, profiles *MockProfileDirectory)
		expectedError error
	}{
		{
			name:          "unauthenticated",
			bidderID:      "",
			amount:        2000,
			mockSetup:     func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {},
			expectedError: auctionerrors.ErrUnauthenticated,
		},
		{
			name:     "profile_missing",
			bidderID: "ghost",
			amount:   2000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("ghost").Return(model.Profile{}, auctionerrors.ErrProfileNotFound)
			},
			expectedError: auctionerrors.ErrVerificationRequired,
		},
		{
			name:     "profile_not_verified",
			bidderID: "bidder1",
			amount:   2000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(model.Profile{UserID: "bidder1"}, nil)
			},
			expectedError: auctionerrors.ErrVerificationRequired,
		},
		{
			name:     "auction_not_found",
			bidderID: "bidder1",
			amount:   2000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
				store.EXPECT().GetAuction("auction1").Return(model.Auction{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedError: auctionerrors.ErrAuctionNotFound,
		},
		{
			name:     "auction_not_active",
			bidderID: "bidder1",
			amount:   2000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
				a := activeAuction(testNow.Add(time.Hour))
				a.Status = model.AuctionPendingReview
				store.EXPECT().GetAuction("auction1").Return(a, nil)
			},
			expectedError: auctionerrors.ErrAuctionNotActive,
		},
		{
			name:     "self_bidding",
			bidderID: "seller1",
			amount:   1_000_000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("seller1").Return(verifiedProfile("seller1"), nil)
				store.EXPECT().GetAuction("auction1").Return(activeAuction(testNow.Add(time.Hour)), nil)
			},
			expectedError: auctionerrors.ErrSelfBiddingForbidden,
		},
		{
			name:     "auction_ended",
			bidderID: "bidder1",
			amount:   2000,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
				store.EXPECT().GetAuction("auction1").Return(activeAuction(testNow), nil)
			},
			expectedError: auctionerrors.ErrAuctionEnded,
		},
		{
			name:     "bid_too_low",
			bidderID: "bidder1",
			amount:   1099,
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
				store.EXPECT().GetAuction("auction1").Return(activeAuction(testNow.Add(time.Hour)), nil)
			},
			expectedError: auctionerrors.ErrBidTooLow,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := repository.NewMockAuctionStore(ctrl)
			profiles := NewMockProfileDirectory(ctrl)
			audit := NewMockAuditSink(ctrl)
			tc.mockSetup(store, profiles)

			svc := NewAuctionService(store, profiles, audit)
			svc.now = func() time.Time { return testNow }

			_, err := svc.PlaceBid("auction1", tc.bidderID, tc.amount)
			require.ErrorIs(t, err, tc.expectedError)
		})
	}
}

// A rejected bid must report the exact minimum the next attempt needs
func TestAuctionService_PlaceBid_ReportsMinimum(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repository.NewMockAuctionStore(ctrl)
	profiles := NewMockProfileDirectory(ctrl)
	audit := NewMockAuditSink(ctrl)

	a := activeAuction(testNow.Add(time.Hour))
	a.CurrentPrice = 7300
	profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
	store.EXPECT().GetAuction("auction1").Return(a, nil)

	svc := NewAuctionService(store, profiles, audit)
	svc.now = func() time.Time { return testNow }

	_, err := svc.PlaceBid("auction1", "bidder1", 7399)
	var tooLow *auctionerrors.BidTooLowError
	require.ErrorAs(t, err, &tooLow)
	require.EqualValues(t, 7400, tooLow.MinimumRequired)
}

// Tests the accepted-bid write: price update, no soft close outside the
// window, full-window reset inside it
func TestAuctionService_PlaceBid_SoftClose(t *testing.T) {
	tests := []struct {
		name         string
		endTime      time.Time
		wantEndTime  time.Time
		wantExtended bool
	}{
		{
			name:         "outside_window_no_extension",
			endTime:      testNow.Add(5 * time.Minute),
			wantEndTime:  testNow.Add(5 * time.Minute),
			wantExtended: false,
		},
		{
			name:         "inside_window_resets_full_window",
			endTime:      testNow.Add(time.Minute),
			wantEndTime:  testNow.Add(SoftCloseWindow),
			wantExtended: true,
		},
		{
			name:         "exactly_at_window_boundary_no_extension",
			endTime:      testNow.Add(SoftCloseWindow),
			wantEndTime:  testNow.Add(SoftCloseWindow),
			wantExtended: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := repository.NewMockAuctionStore(ctrl)
			profiles := NewMockProfileDirectory(ctrl)
			audit := NewMockAuditSink(ctrl)

			profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
			store.EXPECT().GetAuction("auction1").Return(activeAuction(tc.endTime), nil)

			var written model.Auction
			var appended model.Bid
			store.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
				DoAndReturn(func(a model.Auction, b model.Bid) error {
					written = a
					appended = b
					return nil
				})
			audit.EXPECT().Record("bid.placed", gomock.Any())

			svc := NewAuctionService(store, profiles, audit)
			svc.now = func() time.Time { return testNow }

			bid, err := svc.PlaceBid("auction1", "bidder1", 2000)
			require.NoError(t, err)

			_, parseErr := uuid.Parse(bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, model.BidValid, bid.Status)
			require.Equal(t, testNow, bid.CreatedAt)
			require.Equal(t, bid, appended)

			require.EqualValues(t, 2000, written.CurrentPrice)
			require.Equal(t, tc.wantEndTime, written.EndTime)
			require.Equal(t, tc.wantExtended, written.IsExtended)
		})
	}
}

// A version conflict is retried against a fresh read and never surfaced
func TestAuctionService_PlaceBid_RetriesOnConflict(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repository.NewMockAuctionStore(ctrl)
	profiles := NewMockProfileDirectory(ctrl)
	audit := NewMockAuditSink(ctrl)

	first := activeAuction(testNow.Add(time.Hour))
	second := first
	second.CurrentPrice = 1500 // a rival bid landed in between
	second.Version = 2

	profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
	gomock.InOrder(
		store.EXPECT().GetAuction("auction1").Return(first, nil),
		store.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).Return(fmt.Errorf("place bid: %w", auctionerrors.ErrVersionConflict)),
		store.EXPECT().GetAuction("auction1").Return(second, nil),
		store.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).Return(nil),
	)
	audit.EXPECT().Record("bid.placed", gomock.Any())

	svc := NewAuctionService(store, profiles, audit)
	svc.now = func() time.Time { return testNow }

	bid, err := svc.PlaceBid("auction1", "bidder1", 2000)
	require.NoError(t, err)
	require.EqualValues(t, 2000, bid.Amount)
}

// Exhausted retries surface as a storage failure
func TestAuctionService_PlaceBid_RetriesExhausted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repository.NewMockAuctionStore(ctrl)
	profiles := NewMockProfileDirectory(ctrl)
	audit := NewMockAuditSink(ctrl)

	profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
	store.EXPECT().GetAuction("auction1").Return(activeAuction(testNow.Add(time.Hour)), nil).Times(maxCommitAttempts)
	store.EXPECT().PlaceBid(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("place bid: %w", auctionerrors.ErrVersionConflict)).Times(maxCommitAttempts)

	svc := NewAuctionService(store, profiles, audit)
	svc.now = func() time.Time { return testNow }

	_, err := svc.PlaceBid("auction1", "bidder1", 2000)
	require.ErrorIs(t, err, auctionerrors.ErrStorage)
	require.NotErrorIs(t, err, auctionerrors.ErrVersionConflict)
}

// Tests VoidBid repricing against the real in-memory store
func TestAuctionService_VoidBid_Repricing(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()
	profiles := NewStaticProfileDirectory()
	profiles.Add(model.Profile{UserID: "admin1", Verified: true, Admin: true})
	for _, id := range []string{"bidder1", "bidder2", "bidder3"} {
		profiles.Add(verifiedProfile(id))
	}

	svc := NewAuctionService(store, profiles, LogAuditSink{})
	svc.now = func() time.Time { return testNow }

	a := activeAuction(testNow.Add(time.Hour))
	store.AddAuction(a)

	bid1, err := svc.PlaceBid("auction1", "bidder1", 5000)
	require.NoError(t, err)
	bid2, err := svc.PlaceBid("auction1", "bidder2", 6000)
	require.NoError(t, err)
	bid3, err := svc.PlaceBid("auction1", "bidder3", 7000)
	require.NoError(t, err)

	// voiding the top bid falls back to the next valid amount
	require.NoError(t, svc.VoidBid(bid3.BidID, "admin1", "fraudulent bid"))
	current, err := svc.GetAuction("auction1")
	require.NoError(t, err)
	require.EqualValues(t, 6000, current.CurrentPrice)

	// voiding an already-voided bid is a no-op
	require.NoError(t, svc.VoidBid(bid3.BidID, "admin1", "again"))
	current, _ = svc.GetAuction("auction1")
	require.EqualValues(t, 6000, current.CurrentPrice)

	// voiding the remaining bids recovers the starting price
	require.NoError(t, svc.VoidBid(bid2.BidID, "admin1", "dispute"))
	require.NoError(t, svc.VoidBid(bid1.BidID, "admin1", "dispute"))
	current, _ = svc.GetAuction("auction1")
	require.EqualValues(t, 1000, current.CurrentPrice)
	require.GreaterOrEqual(t, current.CurrentPrice, current.StartingPrice)

	// the ledger keeps every entry, all voided
	bids, err := svc.GetBidsForAuction("auction1")
	require.NoError(t, err)
	require.Len(t, bids, 3)
	for _, b := range bids {
		require.Equal(t, model.BidVoided, b.Status)
	}

	// voiding never reopens or retimes the auction
	require.Equal(t, model.AuctionActive, current.Status)
	require.Equal(t, a.EndTime, current.EndTime)
	require.Empty(t, current.WinnerID)
}

// Tests VoidBid authorization and lookup failures
func TestAuctionService_VoidBid_Errors(t *testing.T) {
	tests := []struct {
		name          string
		adminID       string
		bidID         string
		mockSetup     func(store *repository.MockAuctionStore, profiles *MockProfileDirectory)
		expectedError error
	}{
		{
			name:          "unauthenticated",
			adminID:       "",
			bidID:         "bid1",
			mockSetup:     func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {},
			expectedError: auctionerrors.ErrUnauthenticated,
		},
		{
			name:    "not_admin",
			adminID: "bidder1",
			bidID:   "bid1",
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("bidder1").Return(verifiedProfile("bidder1"), nil)
			},
			expectedError: auctionerrors.ErrUnauthorized,
		},
		{
			name:    "admin_profile_missing",
			adminID: "ghost",
			bidID:   "bid1",
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("ghost").Return(model.Profile{}, auctionerrors.ErrProfileNotFound)
			},
			expectedError: auctionerrors.ErrUnauthorized,
		},
		{
			name:    "bid_not_found",
			adminID: "admin1",
			bidID:   "missing",
			mockSetup: func(store *repository.MockAuctionStore, profiles *MockProfileDirectory) {
				profiles.EXPECT().Lookup("admin1").Return(model.Profile{UserID: "admin1", Verified: true, Admin: true}, nil)
				store.EXPECT().GetBid("missing").Return(model.Bid{}, auctionerrors.ErrBidNotFound)
			},
			expectedError: auctionerrors.ErrBidNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := repository.NewMockAuctionStore(ctrl)
			profiles := NewMockProfileDirectory(ctrl)
			audit := NewMockAuditSink(ctrl)
			tc.mockSetup(store, profiles)

			svc := NewAuctionService(store, profiles, audit)
			err := svc.VoidBid(tc.bidID, tc.adminID, "reason")
			require.ErrorIs(t, err, tc.expectedError)
		})
	}
}

// N concurrent bidders on one auction: only strictly increasing amounts
// above the evolving minimum may land, the final price is the maximum
// accepted amount, and the ledger holds exactly the accepted bids
func TestAuctionService_PlaceBid_Concurrent(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()
	profiles := NewStaticProfileDirectory()

	const bidders = 40
	for i := 0; i < bidders; i++ {
		profiles.Add(verifiedProfile(fmt.Sprintf("bidder%d", i)))
	}

	svc := NewAuctionService(store, profiles, LogAuditSink{})

	a := activeAuction(time.Now().UTC().Add(time.Hour))
	store.AddAuction(a)

	var mu sync.Mutex
	var accepted []int64

	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := int64(1100 + 50*i)
			bid, err := svc.PlaceBid("auction1", fmt.Sprintf("bidder%d", i), amount)
			if err != nil {
				require.True(t,
					errors.Is(err, auctionerrors.ErrBidTooLow) || errors.Is(err, auctionerrors.ErrStorage),
					"unexpected error: %v", err)
				return
			}
			mu.Lock()
			accepted = append(accepted, bid.Amount)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.NotEmpty(t, accepted)

	var max int64
	for _, amt := range accepted {
		if amt > max {
			max = amt
		}
	}

	final, err := svc.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, max, final.CurrentPrice, "final price must equal the highest accepted amount")
	require.GreaterOrEqual(t, final.CurrentPrice, final.StartingPrice)

	ledger, err := svc.GetBidsForAuction("auction1")
	require.NoError(t, err)
	require.Len(t, ledger, len(accepted), "ledger length must equal the number of accepted bids")

	// replay the ledger in receipt order: every accepted bid cleared the
	// live minimum at its acceptance time
	price := final.StartingPrice
	for _, b := range ledger {
		require.GreaterOrEqual(t, b.Amount, price+final.MinIncrement)
		price = b.Amount
	}
}
