package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetAllProducts lists available products for the guided selector, optionally
// filtered by ?category=.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !models.ValidProductCategory(category) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown category %q", category))
		return
	}

	query := pc.DB.Where("available = ?", true).Order("name asc")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// CreateProduct -> admin adds a catalog entry
func (pc *ProductController) CreateProduct(c *gin.Context) {
	type request struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gte=0"`
		Category    string  `json:"category" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.ValidProductCategory(req.Category) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown category %q", req.Category))
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Available:   true,
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> admin edits price/description/availability
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := pc.DB.First(&product, "id = ?", productID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type request struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Available   *bool    `json:"available"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("price must be non-negative"))
			return
		}
		product.Price = *req.Price
	}
	if req.Available != nil {
		product.Available = *req.Available
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

// DeleteProduct -> admin retires a catalog entry. Products referenced by
// order items are protected by the FK, so availability is the usual switch.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	productID := c.Param("product_id")

	if err := pc.DB.Delete(&models.Product{}, "id = ?", productID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"product_id": productID})
}
