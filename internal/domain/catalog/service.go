// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/pkg/money"
	"gorm.io/gorm"
)

// ErrPerfumeNotFound is returned when a perfume does not exist
var ErrPerfumeNotFound = errors.New("perfume not found")

// ErrCategoryNotFound is returned when a category does not exist
var ErrCategoryNotFound = errors.New("category not found")

// ErrInvalidPrice is returned when a price string cannot be parsed into cents
var ErrInvalidPrice = errors.New("invalid price")

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// PerfumeListRequest represents perfume list query parameters
type PerfumeListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// PerfumeCreateRequest represents perfume creation data. Price is a decimal
// string (e.g. "85.00"), parsed into cents at the service boundary.
type PerfumeCreateRequest struct {
	Name           string `json:"name" binding:"required"`
	Brand          string `json:"brand" binding:"required"`
	Description    string `json:"description"`
	Price          string `json:"price" binding:"required"`
	Stock          int    `json:"stock" binding:"min=0"`
	ImageURL       string `json:"image_url"`
	CategoryID     uint   `json:"category_id" binding:"required"`
	Volume         string `json:"volume"`
	Concentration  string `json:"concentration"`
	FragranceNotes string `json:"fragrance_notes"`
}

// PerfumeUpdateRequest represents perfume update data; all fields are
// replaced, matching the admin edit form semantics
type PerfumeUpdateRequest struct {
	Name           string `json:"name" binding:"required"`
	Brand          string `json:"brand" binding:"required"`
	Description    string `json:"description"`
	Price          string `json:"price" binding:"required"`
	Stock          int    `json:"stock" binding:"min=0"`
	ImageURL       string `json:"image_url"`
	CategoryID     uint   `json:"category_id" binding:"required"`
	Volume         string `json:"volume"`
	Concentration  string `json:"concentration"`
	FragranceNotes string `json:"fragrance_notes"`
}

// PerfumeResponse represents perfume list response with pagination
type PerfumeResponse struct {
	Perfumes   []Perfume  `json:"perfumes"`
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

// GetPerfumes retrieves perfumes with filtering and pagination
func (s *Service) GetPerfumes(req *PerfumeListRequest) (*PerfumeResponse, error) {
	var perfumes []Perfume
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	query := s.db.Model(&Perfume{}).Preload("Category")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count perfumes: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&perfumes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve perfumes: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &PerfumeResponse{
		Perfumes:   perfumes,
		Pagination: pagination,
	}, nil
}

// GetPerfume retrieves a single perfume by ID
func (s *Service) GetPerfume(id uint) (*Perfume, error) {
	var perfume Perfume
	result := s.db.Preload("Category").Where("id = ?", id).First(&perfume)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPerfumeNotFound
		}
		return nil, fmt.Errorf("failed to retrieve perfume: %w", result.Error)
	}
	return &perfume, nil
}

// GetFeaturedPerfumes retrieves the storefront home page selection
func (s *Service) GetFeaturedPerfumes() ([]Perfume, error) {
	var perfumes []Perfume
	limit := s.config.Catalog.FeaturedLimit
	if err := s.db.Preload("Category").Order("created_at DESC").Limit(limit).Find(&perfumes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve featured perfumes: %w", err)
	}
	return perfumes, nil
}

// GetRelatedPerfumes retrieves perfumes in the same category, excluding the given one
func (s *Service) GetRelatedPerfumes(perfume *Perfume) ([]Perfume, error) {
	var related []Perfume
	limit := s.config.Catalog.RelatedLimit
	err := s.db.
		Where("category_id = ? AND id != ?", perfume.CategoryID, perfume.ID).
		Limit(limit).
		Find(&related).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve related perfumes: %w", err)
	}
	return related, nil
}

// GetLowStockPerfumes retrieves perfumes below the low stock threshold
func (s *Service) GetLowStockPerfumes() ([]Perfume, error) {
	var perfumes []Perfume
	threshold := s.config.Catalog.LowStockThreshold
	if err := s.db.Where("stock < ?", threshold).Order("stock ASC").Find(&perfumes).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock perfumes: %w", err)
	}
	return perfumes, nil
}

// CreatePerfume creates a new perfume
func (s *Service) CreatePerfume(req *PerfumeCreateRequest) (*Perfume, error) {
	price, err := money.ParseAmount(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, req.Price)
	}

	var category Category
	if result := s.db.First(&category, req.CategoryID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	perfume := Perfume{
		Name:           req.Name,
		Brand:          req.Brand,
		Description:    req.Description,
		Price:          price,
		Stock:          req.Stock,
		ImageURL:       req.ImageURL,
		CategoryID:     req.CategoryID,
		Volume:         req.Volume,
		Concentration:  req.Concentration,
		FragranceNotes: req.FragranceNotes,
	}

	if err := s.db.Create(&perfume).Error; err != nil {
		return nil, fmt.Errorf("failed to create perfume: %w", err)
	}

	s.db.Preload("Category").First(&perfume, perfume.ID)

	return &perfume, nil
}

// UpdatePerfume replaces all mutable fields of an existing perfume
func (s *Service) UpdatePerfume(id uint, req *PerfumeUpdateRequest) (*Perfume, error) {
	price, err := money.ParseAmount(req.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, req.Price)
	}

	var perfume Perfume
	result := s.db.Where("id = ?", id).First(&perfume)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPerfumeNotFound
		}
		return nil, fmt.Errorf("failed to find perfume: %w", result.Error)
	}

	var category Category
	if result := s.db.First(&category, req.CategoryID); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", result.Error)
	}

	updates := map[string]interface{}{
		"name":            req.Name,
		"brand":           req.Brand,
		"description":     req.Description,
		"price":           price,
		"stock":           req.Stock,
		"image_url":       req.ImageURL,
		"category_id":     req.CategoryID,
		"volume":          req.Volume,
		"concentration":   req.Concentration,
		"fragrance_notes": req.FragranceNotes,
	}

	if err := s.db.Model(&perfume).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update perfume: %w", err)
	}

	s.db.Preload("Category").First(&perfume, perfume.ID)

	return &perfume, nil
}

// DeletePerfume permanently removes a perfume. Order history keeps its own
// copy of name and brand, so deletion does not break past orders.
func (s *Service) DeletePerfume(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Perfume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete perfume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPerfumeNotFound
	}
	return nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":       true,
		"brand":      true,
		"price":      true,
		"stock":      true,
		"created_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
