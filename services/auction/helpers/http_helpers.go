package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-engine/internal/auctionerrors"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

// CallerIDKey is the gin context key under which the auth middleware
// stores the authenticated caller's user id.
const CallerIDKey = "caller_id"

// CallerID returns the authenticated user id from the request context, or
// an empty string for anonymous requests
func CallerID(c *gin.Context) string {
	if v, ok := c.Get(CallerIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, auctionerrors.ErrVerificationRequired):
		return http.StatusForbidden, "verified profile required to bid"
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		return http.StatusForbidden, "administrator access required"
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive):
		return http.StatusConflict, "auction is not open for bidding"
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusGone, "auction has ended"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrSelfBiddingForbidden):
		return http.StatusForbidden, "sellers may not bid on their own listing"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondBidTooLow sends the rejection along with the exact minimum the
// client must bid so it can resubmit without another round trip
func RespondBidTooLow(c *gin.Context, tooLow *auctionerrors.BidTooLowError) {
	c.JSON(http.StatusConflict, gin.H{
		"status":           http.StatusConflict,
		"message":          "bid amount too low",
		"error":            tooLow.Error(),
		"minimum_required": tooLow.MinimumRequired,
	})
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
