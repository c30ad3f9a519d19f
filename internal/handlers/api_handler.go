package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"food_ordering/internal/models"
	"food_ordering/internal/repository"
	"food_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type APIHandler struct {
	catalogService  services.CatalogService
	cartService     services.CartService
	checkoutService services.CheckoutService
	log             zerolog.Logger
}

func NewAPIHandler(
	catalogService services.CatalogService,
	cartService services.CartService,
	checkoutService services.CheckoutService,
	log zerolog.Logger,
) *APIHandler {
	return &APIHandler{
		catalogService:  catalogService,
		cartService:     cartService,
		checkoutService: checkoutService,
		log:             log,
	}
}

// Register mounts the menu, cart and checkout routes on r.
func (h *APIHandler) Register(r gin.IRouter, resolver services.CustomerResolver) {
	r.GET("/menu", h.ListMenu)

	authed := r.Group("", RequireCustomer(resolver))
	{
		authed.GET("/cart", h.ListCart)
		authed.GET("/cart/total", h.CartTotal)
		authed.POST("/cart/lines", h.AddLine)
		authed.PATCH("/cart/lines/:line_id", h.ChangeQuantity)
		authed.DELETE("/cart/lines/:line_id", h.DeleteLine)

		authed.POST("/checkout", h.PlaceOrder)
		authed.POST("/checkout/complete", h.CompleteCheckout)
		authed.GET("/orders", h.ListOrders)
	}
}

func (h *APIHandler) ListMenu(c *gin.Context) {
	filter := repository.MenuFilter{Category: c.Query("category")}
	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, errInvalidRequest)
			return
		}
		filter.AvailableOnly = available
	}

	entries, err := h.catalogService.ListMenu(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *APIHandler) ListCart(c *gin.Context) {
	lines, err := h.cartService.ListPending(c.Request.Context(), customerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *APIHandler) CartTotal(c *gin.Context) {
	total, err := h.cartService.Total(c.Request.Context(), customerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total.StringFixed(2)})
}

func (h *APIHandler) AddLine(c *gin.Context) {
	var req struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.cartService.AddLine(c.Request.Context(), customerID(c), req.MenuItemID, quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (h *APIHandler) ChangeQuantity(c *gin.Context) {
	lineID, ok := lineParam(c)
	if !ok {
		return
	}
	var req struct {
		Quantity   *int `json:"quantity" binding:"required"`
		MenuItemID uint `json:"menu_item_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	line, removed, err := h.cartService.ChangeQuantity(c.Request.Context(), customerID(c), lineID, *req.Quantity, req.MenuItemID)
	if err != nil {
		writeError(c, err)
		return
	}
	if removed {
		c.JSON(http.StatusOK, gin.H{"line_id": lineID, "status": "removed"})
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *APIHandler) DeleteLine(c *gin.Context) {
	lineID, ok := lineParam(c)
	if !ok {
		return
	}
	if err := h.cartService.DeleteLine(c.Request.Context(), customerID(c), lineID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"line_id": lineID, "status": "deleted"})
}

func (h *APIHandler) PlaceOrder(c *gin.Context) {
	var req struct {
		DeliveryType string `json:"delivery_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, services.ErrInvalidDeliveryType)
		return
	}

	orders, err := h.checkoutService.PlaceOrder(c.Request.Context(), customerID(c), models.DeliveryType(req.DeliveryType))
	if errors.Is(err, services.ErrPartialCheckout) && len(orders) > 0 {
		h.log.Warn().Err(err).Uint("customer_id", customerID(c)).Msg("checkout left lines pending")
		c.JSON(http.StatusAccepted, gin.H{
			"orders":  orders,
			"status":  "partial",
			"warning": "Order placed, but failed to update order status.",
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orders": orders, "status": "placed"})
}

func (h *APIHandler) CompleteCheckout(c *gin.Context) {
	n, err := h.checkoutService.CompleteCheckout(c.Request.Context(), customerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": n})
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	orders, err := h.checkoutService.ListOrders(c.Request.Context(), customerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func lineParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("line_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line id"})
		return 0, false
	}
	return uint(id), true
}
