// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/cart"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"github.com/your-org/perfume-shop/internal/domain/order"
	"github.com/your-org/perfume-shop/internal/interfaces/http/middleware"
	"github.com/your-org/perfume-shop/internal/pkg/pdf"
	"gorm.io/gorm"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	orderService   *order.Service
	cartService    *cart.Service
	catalogService *catalog.Service
	pdfService     *pdf.Service
	config         *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *OrderHandler {
	return &OrderHandler{
		orderService:   order.NewService(db, cfg),
		cartService:    cart.NewService(db, redisClient, cfg),
		catalogService: catalog.NewService(db, cfg),
		pdfService:     pdf.NewService(cfg),
		config:         cfg,
	}
}

// Checkout handles POST /checkout: materializes the session cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var shipping order.ShippingInfo
	if err := c.ShouldBindJSON(&shipping); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sessionID, err := c.Cookie(h.config.Cart.SessionCookie)
	if err != nil || sessionID == "" {
		middleware.RecordCheckout(false)
		c.JSON(http.StatusConflict, gin.H{"error": "Your cart is empty"})
		return
	}

	sessionCart, err := h.cartService.GetSessionCart(sessionID)
	if err != nil {
		middleware.RecordCheckout(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	placedOrder, err := h.orderService.Checkout(userID, sessionCart, &shipping)
	if err != nil {
		middleware.RecordCheckout(false)

		var unavailable *order.PerfumeUnavailableError
		var insufficient *order.InsufficientStockError
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			c.JSON(http.StatusConflict, gin.H{"error": "Your cart is empty"})
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error":   unavailable.Error(),
				"message": "Please review your cart and try again",
			})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{
				"error":   insufficient.Error(),
				"message": "Please review your cart and try again",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}

	// Order is committed; the cart is done. A failed delete only leaves a
	// TTL-bound leftover, so the error is not surfaced.
	_ = h.cartService.ClearCart(sessionID)
	middleware.RecordCheckout(true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    placedOrder,
	})
}

// GetMyOrders handles GET /orders: the authenticated user's history
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orders, err := h.orderService.GetUserOrders(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetMyOrder handles GET /orders/:id, restricted to the owning user
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ord, err := h.orderService.GetOrderForUser(id, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}

// GetMyOrderInvoice handles GET /orders/:id/invoice, returning a PDF invoice
// for the owning user's order
func (h *OrderHandler) GetMyOrderInvoice(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ord, err := h.orderService.GetOrderForUser(id, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	invoice, err := h.pdfService.GenerateInvoice(ord)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", ord.ID))
	c.Data(http.StatusOK, "application/pdf", invoice.Bytes())
}

// AdminGetOrders handles GET /admin/orders
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.GetOrders(&req)
	if err != nil {
		if errors.Is(err, order.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ord, err := h.orderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    ord,
	})
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status order.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.orderService.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    ord,
	})
}

// AdminDashboard handles GET /admin/dashboard: recent orders and low stock
func (h *OrderHandler) AdminDashboard(c *gin.Context) {
	recentOrders, err := h.orderService.GetRecentOrders(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent orders"})
		return
	}

	lowStock, err := h.catalogService.GetLowStockPerfumes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve low stock perfumes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard retrieved successfully",
		"data": gin.H{
			"recent_orders":      recentOrders,
			"low_stock_perfumes": lowStock,
		},
	})
}
