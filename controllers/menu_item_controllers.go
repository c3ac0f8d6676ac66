package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type MenuItemController struct {
	DB *gorm.DB
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db}
}

// GetMenuItemsByName -> ?name= partial, case-insensitive; empty lists all
func (mc *MenuItemController) GetMenuItemsByName(c *gin.Context) {
	q := mc.DB.Order("name ASC")
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if c.Query("available") == "true" {
		q = q.Where("available = ?", true)
	}

	var items []models.MenuItem
	if err := q.Limit(50).Find(&items).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Category    string  `json:"category"`
		Price       float64 `json:"price" binding:"gte=0"`
		Tax         float64 `json:"tax" binding:"gte=0"`
		Description string  `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Category:    req.Category,
		Price:       req.Price,
		Tax:         req.Tax,
		Description: req.Description,
		Available:   req.Available == nil || *req.Available,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}
