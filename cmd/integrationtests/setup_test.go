package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-engine/internal/auctionService"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"auction-engine/internal/settlement"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("integration-test-secret")

// TestStack bundles the full wiring used by the integration tests
type TestStack struct {
	Store  *repository.MemoryStore
	Router *gin.Engine
}

// SetupTestStack initializes the engine on the in-memory store with a set
// of known profiles, mirroring the production wiring in main.go
func SetupTestStack(auctions ...model.Auction) *TestStack {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	for _, a := range auctions {
		store.AddAuction(a)
	}

	profiles := auction.NewStaticProfileDirectory()
	for _, p := range []model.Profile{
		{UserID: "seller1", Verified: true},
		{UserID: "bidder1", Verified: true},
		{UserID: "bidder2", Verified: true},
		{UserID: "unverified1", Verified: false},
		{UserID: "admin1", Verified: true, Admin: true},
	} {
		profiles.Add(p)
	}

	audit := auction.LogAuditSink{}
	svc := auction.NewAuctionService(store, profiles, audit)
	settler := settlement.NewSettler(store, audit)

	return &TestStack{
		Store:  store,
		Router: server.SetupRouter(svc, settler, testSecret),
	}
}

// Token signs a bearer token for the given user against the test secret
func Token(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// ExecuteRequestAndParse runs an HTTP request through the router and
// parses the JSON response envelope
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, bearer string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// ActiveAuction builds an active listing ending at endTime
func ActiveAuction(auctionID string, startingPrice, reservePrice, minIncrement int64, endTime time.Time) model.Auction {
	return model.Auction{
		AuctionID:     auctionID,
		Title:         auctionID + " listing",
		SellerID:      "seller1",
		Status:        model.AuctionActive,
		StartingPrice: startingPrice,
		ReservePrice:  reservePrice,
		CurrentPrice:  startingPrice,
		MinIncrement:  minIncrement,
		StartTime:     time.Now().UTC().Add(-time.Hour),
		EndTime:       endTime,
	}
}
