// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"gorm.io/gorm"
)

// CatalogHandler handles perfume catalog endpoints
type CatalogHandler struct {
	catalogService  *catalog.Service
	categoryService *catalog.CategoryService
	config          *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		catalogService:  catalog.NewService(db, cfg),
		categoryService: catalog.NewCategoryService(db),
		config:          cfg,
	}
}

// GetHome handles GET /home: featured perfumes plus the category list
func (h *CatalogHandler) GetHome(c *gin.Context) {
	featured, err := h.catalogService.GetFeaturedPerfumes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve featured perfumes"})
		return
	}

	categories, err := h.categoryService.GetCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Home retrieved successfully",
		"data": gin.H{
			"featured":   featured,
			"categories": categories,
		},
	})
}

// GetPerfumes handles GET /perfumes with search, category filter and pagination
func (h *CatalogHandler) GetPerfumes(c *gin.Context) {
	var req catalog.PerfumeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.catalogService.GetPerfumes(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve perfumes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Perfumes retrieved successfully",
		"data":    response,
	})
}

// GetPerfume handles GET /perfumes/:id, including related perfumes
func (h *CatalogHandler) GetPerfume(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perfume ID"})
		return
	}

	perfume, err := h.catalogService.GetPerfume(id)
	if err != nil {
		if errors.Is(err, catalog.ErrPerfumeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfume not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve perfume"})
		return
	}

	related, err := h.catalogService.GetRelatedPerfumes(perfume)
	if err != nil {
		related = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Perfume retrieved successfully",
		"data": gin.H{
			"perfume": perfume,
			"related": related,
		},
	})
}

// AdminCreatePerfume handles POST /admin/perfumes
func (h *CatalogHandler) AdminCreatePerfume(c *gin.Context) {
	var req catalog.PerfumeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	perfume, err := h.catalogService.CreatePerfume(&req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		case errors.Is(err, catalog.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create perfume"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Perfume created successfully",
		"data":    perfume,
	})
}

// AdminUpdatePerfume handles PUT /admin/perfumes/:id
func (h *CatalogHandler) AdminUpdatePerfume(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perfume ID"})
		return
	}

	var req catalog.PerfumeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	perfume, err := h.catalogService.UpdatePerfume(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
		case errors.Is(err, catalog.ErrPerfumeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfume not found"})
		case errors.Is(err, catalog.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update perfume"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Perfume updated successfully",
		"data":    perfume,
	})
}

// AdminDeletePerfume handles DELETE /admin/perfumes/:id
func (h *CatalogHandler) AdminDeletePerfume(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid perfume ID"})
		return
	}

	if err := h.catalogService.DeletePerfume(id); err != nil {
		if errors.Is(err, catalog.ErrPerfumeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfume not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete perfume"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Perfume deleted successfully",
	})
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
