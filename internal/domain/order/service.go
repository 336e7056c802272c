// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/cart"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ShippingInfo carries the checkout shipping fields
type ShippingInfo struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page   int         `form:"page,default=1"`
	Limit  int         `form:"limit,default=20"`
	Status OrderStatus `form:"status"`
}

// OrderListResponse represents order list response with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Checkout materializes a session cart into a persisted order. The whole
// operation runs in one transaction: every perfume is re-resolved, stock is
// decremented with a conditional update so concurrent checkouts cannot
// oversell, and the total is computed from live catalog prices. Any failure
// rolls everything back; no partial order is ever visible.
func (s *Service) Checkout(userID uint, sessionCart *cart.SessionCart, shipping *ShippingInfo) (*Order, error) {
	if sessionCart == nil || sessionCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var totalAmount int64
	orderItems := make([]OrderItem, 0, len(sessionCart.Items))

	for _, item := range sessionCart.Items {
		var perfume catalog.Perfume
		result := tx.Where("id = ?", item.PerfumeID).First(&perfume)
		if result.Error != nil {
			tx.Rollback()
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, &PerfumeUnavailableError{PerfumeID: item.PerfumeID, Name: item.Name}
			}
			return nil, fmt.Errorf("failed to resolve perfume: %w", result.Error)
		}

		// Check and decrement in one statement so two concurrent checkouts
		// cannot both pass on the same stock
		decrement := tx.Model(&catalog.Perfume{}).
			Where("id = ? AND stock >= ?", perfume.ID, item.Quantity).
			Update("stock", gorm.Expr("stock - ?", item.Quantity))
		if decrement.Error != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to decrement stock: %w", decrement.Error)
		}
		if decrement.RowsAffected == 0 {
			tx.Rollback()
			return nil, &InsufficientStockError{
				PerfumeID: perfume.ID,
				Name:      perfume.Name,
				Requested: item.Quantity,
				Available: perfume.Stock,
			}
		}

		// Charge the live catalog price, not the cart display snapshot
		totalAmount += perfume.Price * int64(item.Quantity)
		orderItems = append(orderItems, OrderItem{
			PerfumeID:    perfume.ID,
			PerfumeName:  perfume.Name,
			PerfumeBrand: perfume.Brand,
			Quantity:     item.Quantity,
			Price:        perfume.Price,
		})
	}

	order := Order{
		UserID:          userID,
		Status:          StatusPending,
		TotalAmount:     totalAmount,
		FirstName:       shipping.FirstName,
		LastName:        shipping.LastName,
		Phone:           shipping.Phone,
		ShippingAddress: shipping.Address,
		Items:           orderItems,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return &order, nil
}

// GetOrders retrieves orders newest-first with optional status filter
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{}).Preload("Items")

	if req.Status != "" {
		if !req.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order by ID with its items
func (s *Service) GetOrder(id uint) (*Order, error) {
	var order Order
	result := s.db.Preload("Items").Where("id = ?", id).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &order, nil
}

// GetOrderForUser retrieves an order only if it belongs to the given user
func (s *Service) GetOrderForUser(id, userID uint) (*Order, error) {
	var order Order
	result := s.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &order, nil
}

// GetUserOrders retrieves all orders of a user, newest first
func (s *Service) GetUserOrders(userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user orders: %w", err)
	}
	return orders, nil
}

// GetRecentOrders retrieves the newest orders for the admin dashboard
func (s *Service) GetRecentOrders(limit int) ([]Order, error) {
	var orders []Order
	err := s.db.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the order status. A value outside the status set is
// rejected and the stored status stays unchanged.
func (s *Service) UpdateStatus(id uint, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	var order Order
	result := s.db.Where("id = ?", id).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", result.Error)
	}

	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.db.Preload("Items").First(&order, order.ID)

	return &order, nil
}
