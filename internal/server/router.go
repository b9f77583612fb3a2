package server

import (
	auction "auction-engine/internal/auctionService"
	"auction-engine/internal/settlement"
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc *auction.AuctionService, settler *settlement.Settler, jwtSecret []byte) *gin.Engine {
	router := gin.New() // no default middleware, logging and recovery wired explicitly

	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware)
	router.Use(BearerAuthMiddleware(jwtSecret))

	auctionHandler := handler.NewAuctionHandler(svc, settler)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetAuctionBidsHandler)
	}

	admin := router.Group("/admin")
	{
		admin.POST("/bids/:bid_id/void", auctionHandler.VoidBidHandler)
		admin.POST("/settlements", auctionHandler.SettleHandler)
	}

	return router
}
