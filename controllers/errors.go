package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var (
	ErrInvalidID       = errors.New("invalid id")
	ErrNoPermission    = errors.New("you do not have permission")
	ErrConfigExists    = errors.New("configuration already exists, update it instead")
	ErrInvalidDate     = errors.New("invalid date, use YYYY-MM-DD or RFC3339")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	ErrRiderBusy       = errors.New("delivery person still has orders out for delivery")
)

// respondServiceError picks the status code for an error coming out of a
// service call.
func respondServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &verrs),
		errors.Is(err, services.ErrAddressRequired),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidDate):
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.IsLifecycleError(err),
		errors.Is(err, services.ErrDuplicatePhone),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, ErrConfigExists),
		errors.Is(err, ErrRiderBusy):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, c.Param(param))
	}
	return uint(id), nil
}

// parseDate reads a query date. A bare date used as an upper bound covers
// the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
