package handlers

import (
	"errors"
	"net/http"

	"food_ordering/internal/services"

	"github.com/gin-gonic/gin"
)

// errInvalidRequest reports a body or query the handlers could not bind.
var errInvalidRequest = errors.New("invalid request")

type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{services.ErrUnauthenticated, http.StatusUnauthorized, "Please log in to continue."},
	{errInvalidRequest, http.StatusBadRequest, "Invalid request format"},
	{services.ErrInvalidQuantity, http.StatusBadRequest, "Please enter a valid quantity."},
	{services.ErrInvalidDeliveryType, http.StatusBadRequest, "Please choose Dine-in or Take-out."},
	{services.ErrItemUnavailable, http.StatusConflict, "This item is currently unavailable."},
	{services.ErrEmptyCart, http.StatusConflict, "Please add items to your cart before placing an order."},
	{services.ErrCheckoutFailed, http.StatusInternalServerError, "Your order could not be placed. Nothing was charged to your cart."},
	{services.ErrPartialCheckout, http.StatusAccepted, "Order placed, but your cart could not be updated. Please try again."},
	{services.ErrNotFound, http.StatusNotFound, "We could not find that."},
	{services.ErrStoreUnavailable, http.StatusServiceUnavailable, "Service is temporarily unavailable. Please check your orders before trying again."},
}

func writeError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{
				"error":     m.message,
				"kind":      m.target.Error(),
				"retryable": services.Retryable(err),
			})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Unexpected error", "kind": "internal", "retryable": false})
}
