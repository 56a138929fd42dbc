package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/freshcut/internal/cache"
	"github.com/example/freshcut/internal/middleware"
	"github.com/example/freshcut/internal/models"
	"github.com/example/freshcut/internal/utils"
)

// ProductHandler manages the product catalog.
type ProductHandler struct {
	db        *gorm.DB
	cache     *cache.ProductCache
	uploadDir string
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, productCache *cache.ProductCache, uploadDir string) *ProductHandler {
	return &ProductHandler{db: db, cache: productCache, uploadDir: uploadDir}
}

type productListResponse struct {
	Products   []models.Product `json:"products"`
	TotalItems int64            `json:"total_items"`
}

// ListProducts returns paginated products with optional filters. The
// unfiltered first page is served from the catalog cache when available.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	isAdmin := middleware.GetCurrentUserRole(c) == models.RoleAdmin

	filtered := c.Query("category") != "" || c.Query("subcategory") != "" ||
		c.Query("search") != "" || c.Query("min_price") != "" ||
		c.Query("max_price") != "" || c.Query("in_stock") != ""

	cacheKey := fmt.Sprintf("products:list:%d:%d", pg.Page, pg.Limit)
	if !filtered && !isAdmin {
		var cached productListResponse
		if h.cache.Get(c.Context(), cacheKey, &cached) {
			return c.JSON(fiber.Map{
				"success": true,
				"data":    cached.Products,
				"pagination": fiber.Map{
					"current_page":   pg.Page,
					"items_per_page": pg.Limit,
					"total_items":    cached.TotalItems,
				},
			})
		}
	}

	query := h.db.Model(&models.Product{})
	if !isAdmin {
		query = query.Where("is_active = ?", true)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if sub := c.Query("subcategory"); sub != "" {
		query = query.Where("subcategory = ?", sub)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	if inStock := c.Query("in_stock"); inStock != "" {
		query = query.Where("in_stock = ?", inStock == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	if !filtered && !isAdmin {
		h.cache.Set(c.Context(), cacheKey, productListResponse{Products: products, TotalItems: total})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct loads a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	cacheKey := "products:detail:" + id.String()
	var product models.Product
	if !h.cache.Get(c.Context(), cacheKey, &product) {
		if err := h.db.First(&product, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return err
		}
		h.cache.Set(c.Context(), cacheKey, product)
	}

	if !product.IsActive && middleware.GetCurrentUserRole(c) != models.RoleAdmin {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DiscountedPrice float64  `json:"discounted_price"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Images          []string `json:"images"`
	InStock         *bool    `json:"in_stock"`
	Quantity        int      `json:"quantity"`
	WeightValue     float64  `json:"weight_value"`
	WeightUnit      string   `json:"weight_unit"`
	IsActive        *bool    `json:"is_active"`
}

// CreateProduct adds a catalog item.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	if !models.ValidCategory(req.Category) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category")
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		Images:          pq.StringArray(req.Images),
		InStock:         true,
		Quantity:        req.Quantity,
		WeightValue:     req.WeightValue,
		WeightUnit:      req.WeightUnit,
		IsActive:        true,
	}

	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct edits a catalog item.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.DiscountedPrice >= 0 {
		updates["discounted_price"] = req.DiscountedPrice
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category")
		}
		updates["category"] = req.Category
	}
	if req.Subcategory != "" {
		updates["subcategory"] = req.Subcategory
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.Quantity >= 0 {
		updates["quantity"] = req.Quantity
	}
	if req.WeightValue > 0 {
		updates["weight_value"] = req.WeightValue
	}
	if req.WeightUnit != "" {
		updates["weight_unit"] = req.WeightUnit
	}
	// soft delete is reversed here, there is no separate restore endpoint
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.Context())

	return c.JSON(fiber.Map{"success": true, "message": "product updated"})
}

// DeleteProduct soft-deletes a product by clearing IsActive.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	h.cache.Invalidate(c.Context())

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

// UploadImage stores a product image under the upload directory and appends
// its public path to the product's image list.
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unsupported image type")
	}

	filename := fmt.Sprintf("%s-%s%s", product.ID, uuid.NewString()[:8], ext)
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		return err
	}

	product.Images = append(product.Images, "/uploads/"+filename)
	if err := h.db.Model(&product).Update("images", product.Images).Error; err != nil {
		return err
	}

	h.cache.Invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"image": "/uploads/" + filename},
	})
}
