package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type ConfigurationController struct {
	DB *gorm.DB
}

func NewConfigurationController(db *gorm.DB) *ConfigurationController {
	return &ConfigurationController{DB: db}
}

type configurationRequest struct {
	RestaurantName string         `json:"restaurant_name" binding:"required"`
	Phone          string         `json:"phone" binding:"omitempty,phone"`
	Email          string         `json:"email" binding:"omitempty,email"`
	Address        models.Address `json:"address_details"`
	TaxID          string         `json:"tax_id"`
	Currency       string         `json:"currency" binding:"omitempty,len=3"`
	TaxRate        float64        `json:"tax_rate" binding:"gte=0,lte=100"`
	TicketFooter   string         `json:"ticket_footer"`
}

func (r configurationRequest) apply(cfg *models.Configuration) {
	cfg.RestaurantName = r.RestaurantName
	cfg.Phone = utils.NormalizePhone(r.Phone)
	cfg.Email = r.Email
	cfg.Address = models.StoreAddress(r.Address)
	cfg.TaxID = r.TaxID
	cfg.Currency = strings.ToUpper(r.Currency)
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	cfg.TaxRate = r.TaxRate
	cfg.TicketFooter = r.TicketFooter
}

type configurationView struct {
	models.Configuration
	AddressDetails models.Address `json:"address_details"`
	AddressDisplay string         `json:"address_display"`
}

func newConfigurationView(cfg models.Configuration) configurationView {
	details := models.DecodeAddress(cfg.Address)
	return configurationView{Configuration: cfg, AddressDetails: details, AddressDisplay: details.Display()}
}

func (cc *ConfigurationController) current() (*models.Configuration, error) {
	var cfg models.Configuration
	if err := cc.DB.Order("id ASC").First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cc *ConfigurationController) GetConfigurations(c *gin.Context) {
	cfg, err := cc.current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Configuration", newConfigurationView(*cfg))
}

// CreateConfigurations fails once a configuration exists.
func (cc *ConfigurationController) CreateConfigurations(c *gin.Context) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := cc.DB.Model(&models.Configuration{}).Count(&count).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if count > 0 {
		respondServiceError(c, ErrConfigExists)
		return
	}

	var cfg models.Configuration
	req.apply(&cfg)
	if err := cc.DB.Create(&cfg).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Configuration created", newConfigurationView(cfg))
}

func (cc *ConfigurationController) UpdateConfigurations(c *gin.Context) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	cfg, err := cc.current()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	req.apply(cfg)
	if err := cc.DB.Save(cfg).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Configuration updated", newConfigurationView(*cfg))
}
