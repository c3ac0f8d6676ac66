package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type ReportController struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, Reports: services.NewReportService(db)}
}

func (rc *ReportController) analytics(c *gin.Context) (services.OrderAnalytics, bool) {
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		respondServiceError(c, err)
		return services.OrderAnalytics{}, false
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		respondServiceError(c, err)
		return services.OrderAnalytics{}, false
	}

	a, err := rc.Reports.OrderAnalytics(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return services.OrderAnalytics{}, false
	}
	return a, true
}

// GetOrderAnalytics -> ?from=YYYY-MM-DD&to=YYYY-MM-DD
func (rc *ReportController) GetOrderAnalytics(c *gin.Context) {
	a, ok := rc.analytics(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order analytics", a)
}

// GetOrderAnalyticsPDF -> same report as a downloadable PDF
func (rc *ReportController) GetOrderAnalyticsPDF(c *gin.Context) {
	a, ok := rc.analytics(c)
	if !ok {
		return
	}

	name, currency := "Restaurant", "EUR"
	var cfg models.Configuration
	if err := rc.DB.Order("id ASC").First(&cfg).Error; err == nil {
		name, currency = cfg.RestaurantName, cfg.Currency
	}

	var buf bytes.Buffer
	if err := services.WriteAnalyticsPDF(&buf, a, name, currency); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("analytics-%s.pdf", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
