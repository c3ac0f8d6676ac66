package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type DeliveryPersonController struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewDeliveryPersonController(db *gorm.DB) *DeliveryPersonController {
	return &DeliveryPersonController{DB: db, Reports: services.NewReportService(db)}
}

type deliveryPersonRequest struct {
	Name    string         `json:"name" binding:"required"`
	Phone   string         `json:"phone" binding:"required,phone"`
	Email   string         `json:"email" binding:"omitempty,email"`
	Vehicle string         `json:"vehicle"`
	Address models.Address `json:"address_details"`
	Active  *bool          `json:"active"`
}

func (r deliveryPersonRequest) apply(p *models.DeliveryPerson) {
	p.Name = strings.TrimSpace(r.Name)
	p.Phone = utils.NormalizePhone(r.Phone)
	p.Email = r.Email
	p.Vehicle = r.Vehicle
	p.Address = models.StoreAddress(r.Address)
	if r.Active != nil {
		p.Active = *r.Active
	}
}

// GetDeliveryPersons -> ?active=true lists only riders on shift
func (dc *DeliveryPersonController) GetDeliveryPersons(c *gin.Context) {
	q := dc.DB.Order("name ASC")
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}

	var persons []models.DeliveryPerson
	if err := q.Find(&persons).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of delivery persons", persons)
}

func (dc *DeliveryPersonController) CreateDeliveryPerson(c *gin.Context) {
	var req deliveryPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	person := models.DeliveryPerson{Active: true}
	req.apply(&person)
	if err := dc.DB.Create(&person).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Delivery person created", person)
}

func (dc *DeliveryPersonController) UpdateDeliveryPerson(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req deliveryPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var person models.DeliveryPerson
	if err := dc.DB.First(&person, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	req.apply(&person)
	if err := dc.DB.Save(&person).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery person updated", person)
}

// DeleteDeliveryPerson refuses while the rider still carries orders. Finished
// orders are kept and lose their rider link.
func (dc *DeliveryPersonController) DeleteDeliveryPerson(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		var person models.DeliveryPerson
		if err := tx.First(&person, id).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Order{}).
			Where("delivery_person_id = ? AND status = ?", id, models.OrderStatusOutForDelivery).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrRiderBusy
		}

		if err := tx.Model(&models.Order{}).Where("delivery_person_id = ?", id).Update("delivery_person_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&person).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery person deleted", nil)
}

func (dc *DeliveryPersonController) GetDeliveryPersonStats(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats, err := dc.Reports.DeliveryStats(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery person stats", stats)
}
