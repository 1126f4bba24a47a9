package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pizzeria-service/catalog"
	"pizzeria-service/middlewares"
	"pizzeria-service/models"
	"pizzeria-service/repository"
)

var (
	errNameRequired  = errors.New("id and name are required")
	errNegativePrice = errors.New("prices cannot be negative")
	errNoPrices      = errors.New("at least one size price is required")
)

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		storeError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	defer middlewares.RecordOperation(c, "create_category")

	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category.ID, category.Name = strings.TrimSpace(category.ID), strings.TrimSpace(category.Name)
	if category.ID == "" || category.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNameRequired.Error()})
		return
	}
	if err := h.store.CreateCategory(c.Request.Context(), category); err != nil {
		storeError(c, "create category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		storeError(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func validatePrices(prices map[string]int64) error {
	if len(prices) == 0 {
		return errNoPrices
	}
	for _, p := range prices {
		if p < 0 {
			return errNegativePrice
		}
	}
	return nil
}

func (h *Handler) CreateProduct(c *gin.Context) {
	defer middlewares.RecordOperation(c, "create_product")

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID, product.Name = strings.TrimSpace(product.ID), strings.TrimSpace(product.Name)
	if product.ID == "" || product.Name == "" || product.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id, name and category are required"})
		return
	}
	if err := validatePrices(product.Prices); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if product.IsActive == nil {
		product.IsActive = models.Bool(true)
	}
	if err := h.store.CreateProduct(c.Request.Context(), product); err != nil {
		storeError(c, "create product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	defer middlewares.RecordOperation(c, "update_product")

	var patch repository.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}
	if patch.Prices != nil {
		if err := validatePrices(patch.Prices); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), patch); err != nil {
		storeError(c, "update product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.store.ListZones(c.Request.Context())
	if err != nil {
		storeError(c, "list zones", err)
		return
	}
	c.JSON(http.StatusOK, zones)
}

func (h *Handler) CreateZone(c *gin.Context) {
	defer middlewares.RecordOperation(c, "create_zone")

	var zone models.DeliveryZone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	zone.ID, zone.Name = strings.TrimSpace(zone.ID), strings.TrimSpace(zone.Name)
	if zone.ID == "" || zone.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNameRequired.Error()})
		return
	}
	if zone.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNegativePrice.Error()})
		return
	}
	if err := h.store.CreateZone(c.Request.Context(), zone); err != nil {
		storeError(c, "create zone", err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}

func (h *Handler) UpdateZone(c *gin.Context) {
	defer middlewares.RecordOperation(c, "update_zone")

	var patch repository.ZonePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Price != nil && *patch.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNegativePrice.Error()})
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}
	if err := h.store.UpdateZone(c.Request.Context(), c.Param("id"), patch); err != nil {
		storeError(c, "update zone", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DeleteZone(c *gin.Context) {
	defer middlewares.RecordOperation(c, "delete_zone")

	if err := h.store.DeleteZone(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, "delete zone", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ListExtras(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Extras())
}
