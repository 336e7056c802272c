// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"gorm.io/gorm"
)

// ErrItemNotInCart is returned when updating or removing an item the cart does not hold
var ErrItemNotInCart = errors.New("item not found in cart")

// Service handles session cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	PerfumeID uint `json:"perfume_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartResponse represents a cart with computed totals
type CartResponse struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	Totals    CartTotals        `json:"totals"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// GetCart retrieves the session cart, creating an empty one if absent
func (s *Service) GetCart(sessionID string) (*CartResponse, error) {
	sessionCart, err := s.getSessionCart(sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(sessionCart), nil
}

// GetSessionCart returns the raw session cart for checkout
func (s *Service) GetSessionCart(sessionID string) (*SessionCart, error) {
	return s.getSessionCart(sessionID)
}

// AddToCart adds an item to the session cart, capturing a display snapshot
// of the perfume. Stock is not enforced here; checkout owns that check.
func (s *Service) AddToCart(sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	var perfume catalog.Perfume
	result := s.db.Where("id = ?", req.PerfumeID).First(&perfume)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrPerfumeNotFound
		}
		return nil, fmt.Errorf("failed to find perfume: %w", result.Error)
	}

	sessionCart, err := s.getSessionCart(sessionID)
	if err != nil {
		return nil, err
	}

	itemExists := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].PerfumeID == req.PerfumeID {
			sessionCart.Items[i].Quantity += req.Quantity
			// Refresh the snapshot in case the catalog changed
			sessionCart.Items[i].Name = perfume.Name
			sessionCart.Items[i].Brand = perfume.Brand
			sessionCart.Items[i].Price = perfume.Price
			sessionCart.Items[i].ImageURL = perfume.ImageURL
			itemExists = true
			break
		}
	}

	if !itemExists {
		sessionCart.Items = append(sessionCart.Items, SessionCartItem{
			PerfumeID: perfume.ID,
			Name:      perfume.Name,
			Brand:     perfume.Brand,
			Price:     perfume.Price,
			ImageURL:  perfume.ImageURL,
			Quantity:  req.Quantity,
			AddedAt:   time.Now().UTC(),
		})
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	if err := s.saveSessionCart(sessionID, sessionCart); err != nil {
		return nil, err
	}

	return s.toResponse(sessionCart), nil
}

// UpdateCartItem sets the quantity of a cart item; zero or less removes it
func (s *Service) UpdateCartItem(sessionID string, perfumeID uint, req *UpdateCartItemRequest) (*CartResponse, error) {
	sessionCart, err := s.getSessionCart(sessionID)
	if err != nil {
		return nil, err
	}

	itemFound := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].PerfumeID == perfumeID {
			if req.Quantity <= 0 {
				sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			} else {
				sessionCart.Items[i].Quantity = req.Quantity
			}
			itemFound = true
			break
		}
	}

	if !itemFound {
		return nil, ErrItemNotInCart
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	if err := s.saveSessionCart(sessionID, sessionCart); err != nil {
		return nil, err
	}

	return s.toResponse(sessionCart), nil
}

// RemoveFromCart removes an item from the session cart. Removing an item
// the cart does not hold is a no-op.
func (s *Service) RemoveFromCart(sessionID string, perfumeID uint) (*CartResponse, error) {
	sessionCart, err := s.getSessionCart(sessionID)
	if err != nil {
		return nil, err
	}

	for i := range sessionCart.Items {
		if sessionCart.Items[i].PerfumeID == perfumeID {
			sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			sessionCart.UpdatedAt = time.Now().UTC()
			if err := s.saveSessionCart(sessionID, sessionCart); err != nil {
				return nil, err
			}
			break
		}
	}

	return s.toResponse(sessionCart), nil
}

// ClearCart removes the whole session cart
func (s *Service) ClearCart(sessionID string) error {
	ctx := context.Background()
	return s.redisClient.Del(ctx, s.cartKey(sessionID)).Err()
}

// GetCartItemCount returns the total quantity across cart items
func (s *Service) GetCartItemCount(sessionID string) (int, error) {
	sessionCart, err := s.getSessionCart(sessionID)
	if err != nil {
		return 0, err
	}
	return sessionCart.Totals().ItemCount, nil
}

// Private helper methods

func (s *Service) cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getSessionCart(sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	ctx := context.Background()
	cartData, err := s.redisClient.Get(ctx, s.cartKey(sessionID)).Result()
	if err == redis.Nil {
		now := time.Now().UTC()
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.config.Cart.TTL),
		}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(cartData), &sessionCart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return &sessionCart, nil
}

func (s *Service) saveSessionCart(sessionID string, sessionCart *SessionCart) error {
	ctx := context.Background()

	data, err := json.Marshal(sessionCart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	return s.redisClient.Set(ctx, s.cartKey(sessionID), data, s.config.Cart.TTL).Err()
}

func (s *Service) toResponse(sessionCart *SessionCart) *CartResponse {
	return &CartResponse{
		SessionID: sessionCart.SessionID,
		Items:     sessionCart.Items,
		Totals:    sessionCart.Totals(),
		CreatedAt: sessionCart.CreatedAt,
		UpdatedAt: sessionCart.UpdatedAt,
	}
}
