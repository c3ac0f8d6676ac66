package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var ErrDuplicatePhone = errors.New("a customer with this phone already exists")

// CustomerInput is what create, update and import accept.
type CustomerInput struct {
	Name    string         `json:"name" binding:"required,max=255"`
	Phone   string         `json:"phone" binding:"required,phone"`
	Email   string         `json:"email" binding:"omitempty,email"`
	Address models.Address `json:"address_details"`
	Notes   string         `json:"notes"`
}

// CustomerView is a customer with its address decoded for display.
type CustomerView struct {
	models.Customer
	AddressDetails models.Address `json:"address_details"`
	AddressDisplay string         `json:"address_display"`
}

func NewCustomerView(c models.Customer) CustomerView {
	details := c.AddressDetails()
	return CustomerView{Customer: c, AddressDetails: details, AddressDisplay: details.Display()}
}

func NewCustomerViews(customers []models.Customer) []CustomerView {
	out := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerView(c))
	}
	return out
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// Validate runs the binding rules, for callers that did not go through gin.
func (in CustomerInput) Validate() error {
	utils.SetupValidator()
	return binding.Validator.ValidateStruct(in)
}

func (in CustomerInput) apply(c *models.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = utils.NormalizePhone(in.Phone)
	c.Email = strings.TrimSpace(in.Email)
	c.Notes = in.Notes
	c.Address = models.StoreAddress(in.Address)
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	in.apply(&customer)

	if err := s.ensurePhoneFree(ctx, customer.Phone, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}

	in.apply(&customer)
	if err := s.ensurePhoneFree(ctx, customer.Phone, customer.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &customer, nil
}

// FindByPhone returns the customer whose phone matches exactly once normalized.
func (s *CustomerService) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("phone = ?", utils.NormalizePhone(phone)).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// SearchByPhone returns customers whose phone contains the fragment.
func (s *CustomerService) SearchByPhone(ctx context.Context, fragment string) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Where("phone LIKE ?", "%"+utils.NormalizePhone(fragment)+"%").
		Order("name ASC").
		Limit(20).
		Find(&customers).Error
	return customers, err
}

func (s *CustomerService) ensurePhoneFree(ctx context.Context, phone string, exceptID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Customer{}).Where("phone = ?", phone)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePhone, phone)
	}
	return nil
}
