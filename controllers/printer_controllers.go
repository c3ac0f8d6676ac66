package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type PrinterController struct {
	DB *gorm.DB
}

func NewPrinterController(db *gorm.DB) *PrinterController {
	return &PrinterController{DB: db}
}

type printerRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Connection string `json:"connection" binding:"required,oneof=network usb"`
	Address    string `json:"address" binding:"required_if=Connection network"`
	Port       int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Role       string `json:"role" binding:"required,oneof=kitchen receipt delivery"`
	PaperWidth int    `json:"paper_width" binding:"omitempty,oneof=58 80"`
	IsDefault  bool   `json:"is_default"`
}

func (r printerRequest) apply(p *models.Printer) {
	p.Name = r.Name
	p.Connection = r.Connection
	p.Address = r.Address
	p.Port = r.Port
	p.Role = r.Role
	p.PaperWidth = r.PaperWidth
	if p.PaperWidth == 0 {
		p.PaperWidth = 80
	}
	p.IsDefault = r.IsDefault
}

func (pc *PrinterController) GetPrinters(c *gin.Context) {
	q := pc.DB.Order("role ASC").Order("name ASC")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var printers []models.Printer
	if err := q.Find(&printers).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of printers", printers)
}

func (pc *PrinterController) CreatePrinter(c *gin.Context) {
	var req printerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var printer models.Printer
	req.apply(&printer)
	if err := pc.save(&printer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Printer created", printer)
}

func (pc *PrinterController) UpdatePrinter(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req printerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var printer models.Printer
	if err := pc.DB.First(&printer, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	req.apply(&printer)
	if err := pc.save(&printer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Printer updated", printer)
}

func (pc *PrinterController) DeletePrinter(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := pc.DB.Delete(&models.Printer{}, id)
	if result.Error != nil {
		respondServiceError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondServiceError(c, gorm.ErrRecordNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Printer deleted", nil)
}

// save keeps a single default printer per role.
func (pc *PrinterController) save(printer *models.Printer) error {
	return pc.DB.Transaction(func(tx *gorm.DB) error {
		if printer.IsDefault {
			q := tx.Model(&models.Printer{}).Where("role = ? AND is_default = ?", printer.Role, true)
			if printer.ID != 0 {
				q = q.Where("id <> ?", printer.ID)
			}
			if err := q.Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(printer).Error
	})
}
