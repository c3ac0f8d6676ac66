package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

const maxImportSize = 5 << 20

type CustomerController struct {
	DB        *gorm.DB
	Customers *services.CustomerService
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db, Customers: services.NewCustomerService(db)}
}

// GetAllCustomers -> every customer with the decoded address
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := cc.DB.Order("name ASC").Find(&customers).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", services.NewCustomerViews(customers))
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req services.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer, err := cc.Customers.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Infof("New customer created (ID=%d)", customer.ID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", services.NewCustomerView(*customer))
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req services.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer, err := cc.Customers.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated", services.NewCustomerView(*customer))
}

// DeleteCustomer keeps the customer's past orders; they hold a copy of name,
// phone and address.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", nil)
}

// GetCustomerByPhone -> exact match
func (cc *CustomerController) GetCustomerByPhone(c *gin.Context) {
	customer, err := cc.Customers.FindByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer", services.NewCustomerView(*customer))
}

// GetCustomersByPhone -> partial match for the order form autocomplete
func (cc *CustomerController) GetCustomersByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("phone query parameter is required"))
		return
	}

	customers, err := cc.Customers.SearchByPhone(c.Request.Context(), phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Matching customers", services.NewCustomerViews(customers))
}

// ImportCustomers -> CSV as the raw body or as a "file" form field
func (cc *CustomerController) ImportCustomers(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	var body io.Reader = c.Request.Body
	if c.ContentType() == "multipart/form-data" {
		file, err := c.FormFile("file")
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		f, err := file.Open()
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		defer f.Close()
		body = f
	}

	report, err := cc.Customers.Import(c.Request.Context(), body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	message := "Customers imported"
	if report.Failed > 0 {
		message = "Customers imported with errors"
	}
	utils.RespondJSON(c, http.StatusOK, message, report)
}
