package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/auctionerrors"
	model "auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	PlaceBid(auctionID, bidderID string, amount int64) (model.Bid, error)
	VoidBid(bidID, adminID, reason string) error
	GetAuction(auctionID string) (model.Auction, error)
	GetBidsForAuction(auctionID string) ([]model.Bid, error)
}

type SettlerInterface interface {
	SettleExpiredAuctions() int
}

type AuctionHandler struct {
	service AuctionServiceInterface
	settler SettlerInterface
}

func NewAuctionHandler(service AuctionServiceInterface, settler SettlerInterface) *AuctionHandler {
	return &AuctionHandler{service: service, settler: settler}
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bidderID := helpers.CallerID(c)
	bid, err := h.service.PlaceBid(req.AuctionID, bidderID, req.Amount)
	if err != nil {
		var tooLow *auctionerrors.BidTooLowError
		if errors.As(err, &tooLow) {
			helpers.RespondBidTooLow(c, tooLow)
		} else {
			status, message := helpers.MapErrorToHTTP(err)
			utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		}
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": req.AuctionID,
			"bidder_id":  bidderID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid accepted")
	helpers.LogSuccess("PlaceBidHandler", "bid accepted", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := helpers.AuctionResponse{
		AuctionID:     a.AuctionID,
		Title:         a.Title,
		SellerID:      a.SellerID,
		Status:        string(a.Status),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		MinIncrement:  a.MinIncrement,
		MinimumBid:    a.MinimumBid(),
		EndTime:       a.EndTime.UTC().Format(time.RFC3339),
		IsExtended:    a.IsExtended,
		WinnerID:      a.WinnerID,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "auction retrieved successfully")
}

// GetAuctionBidsHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetAuctionBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidsForAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionBidsHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.BidResponse{
			BidID:     b.BidID,
			AuctionID: b.AuctionID,
			BidderID:  b.BidderID,
			Amount:    b.Amount,
			Status:    string(b.Status),
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetAuctionBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// VoidBidHandler handles POST /admin/bids/:bid_id/void
func (h *AuctionHandler) VoidBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")

	var req helpers.VoidBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "VoidBidHandler", err)
		return
	}

	adminID := helpers.CallerID(c)
	if err := h.service.VoidBid(bidID, adminID, req.Reason); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("VoidBidHandler: failed to void bid", map[string]any{
			"bid_id":   bidID,
			"admin_id": adminID,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"bid_id": bidID}, "bid voided")
	helpers.LogSuccess("VoidBidHandler", "bid voided", map[string]any{
		"bid_id":   bidID,
		"admin_id": adminID,
		"reason":   req.Reason,
	})
}

// SettleHandler handles POST /admin/settlements, an on-demand sweep next
// to the scheduled one
func (h *AuctionHandler) SettleHandler(c *gin.Context) {
	settled := h.settler.SettleExpiredAuctions()

	utils.JSONResponse(c, http.StatusOK, helpers.SettleResponse{Settled: settled}, "settlement sweep complete")
	helpers.LogSuccess("SettleHandler", "settlement sweep complete", map[string]any{"settled": settled})
}
