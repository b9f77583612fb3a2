package main

import (
	"context"
	"fmt"
	"os"
	"time"

	auction "auction-engine/internal/auctionService"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/internal/settlement"
	"auction-engine/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // .env is optional, real env wins

	store := openStore()
	profiles := seedProfiles()
	audit := auction.LogAuditSink{}

	svc := auction.NewAuctionService(store, profiles, audit)
	settler := settlement.NewSettler(store, audit)

	go settler.Run(context.Background(), settleInterval())

	router := server.SetupRouter(svc, settler, jwtSecret())

	port := getPort()
	fmt.Printf("Starting auction engine on %s...\n", port)
	if err := router.Run(port); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// openStore selects Postgres when DATABASE_URL is set, otherwise the
// seeded in-memory store
func openStore() repository.AuctionStore {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pg, err := repository.NewPostgresStore(dsn)
		if err != nil {
			utils.Fatal("failed to open postgres store", map[string]any{"error": err.Error()})
		}
		utils.Info("using postgres auction store", nil)
		return pg
	}

	mem := repository.NewMemoryStore()
	prepopulateAuctions(mem)
	utils.Info("using in-memory auction store", nil)
	return mem
}

// prepopulateAuctions adds sample listings to the in-memory store
func prepopulateAuctions(store *repository.MemoryStore) {
	now := time.Now().UTC()
	auctions := []model.Auction{
		{
			AuctionID: "auction1", Title: "2014 CAT 320D excavator", SellerID: "seller1",
			Status: model.AuctionActive, StartingPrice: 4_500_000, ReservePrice: 6_000_000,
			CurrentPrice: 4_500_000, MinIncrement: 50_000,
			StartTime: now, EndTime: now.Add(24 * time.Hour),
		},
		{
			AuctionID: "auction2", Title: "Komatsu D61 dozer", SellerID: "seller1",
			Status: model.AuctionActive, StartingPrice: 3_000_000, ReservePrice: 3_000_000,
			CurrentPrice: 3_000_000, MinIncrement: 25_000,
			StartTime: now, EndTime: now.Add(48 * time.Hour),
		},
		{
			AuctionID: "auction3", Title: "Liebherr LTM 1060 mobile crane", SellerID: "seller2",
			Status: model.AuctionActive, StartingPrice: 12_000_000, ReservePrice: 15_000_000,
			CurrentPrice: 12_000_000, MinIncrement: 100_000,
			StartTime: now, EndTime: now.Add(72 * time.Hour),
		},
	}

	for _, a := range auctions {
		store.AddAuction(a)
	}
}

// seedProfiles builds the standalone profile directory with demo users
func seedProfiles() *auction.StaticProfileDirectory {
	profiles := auction.NewStaticProfileDirectory()
	for _, p := range []model.Profile{
		{UserID: "seller1", Verified: true},
		{UserID: "seller2", Verified: true},
		{UserID: "bidder1", Verified: true},
		{UserID: "bidder2", Verified: true},
		{UserID: "bidder3", Verified: false},
		{UserID: "admin1", Verified: true, Admin: true},
	} {
		profiles.Add(p)
	}
	return profiles
}

// settleInterval returns the settlement cadence from env or 1 minute
func settleInterval() time.Duration {
	if raw := os.Getenv("SETTLE_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
		utils.Warn("invalid SETTLE_INTERVAL, using default", map[string]any{"value": raw})
	}
	return time.Minute
}

// jwtSecret returns the bearer token secret from env or a dev default
func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-secret")
}

// getPort returns the server port from env or defaults to ":8080"
func getPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return fmt.Sprintf(":%s", p)
	}
	return ":8080"
}
