package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

func setupUserRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	utils.ConfigureJWT("test-secret", time.Hour)
	_, err := services.EnsureAdmin(context.Background(), db, "admin", "secret123")
	require.NoError(t, err)

	r := newRouter(models.RoleAdmin)
	userCtrl := controllers.NewUserController(db)
	r.POST("/login", userCtrl.Login)
	r.GET("/profile", userCtrl.GetProfile)
	r.GET("/users", userCtrl.GetAllUsers)
	r.POST("/users", userCtrl.Register)
	r.PUT("/users/:id", userCtrl.UpdateUser)
	r.DELETE("/users/:id", userCtrl.DeleteUser)
	return r
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(t, db)

	w, env := doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, env.Data, &data)
	require.NotEmpty(t, data.Token)
	assert.Equal(t, models.RoleAdmin, data.User.Role)

	claims, err := utils.ParseToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	w, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserManagement(t *testing.T) {
	db := setupTestDB(t)
	r := setupUserRouter(t, db)

	w, env := doJSON(t, r, http.MethodPost, "/users", map[string]string{
		"username": "cook", "name": "Cook", "password": "kitchen1", "role": models.RoleKitchen,
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	assert.NotContains(t, string(env.Data), "password")

	w, _ = doJSON(t, r, http.MethodPost, "/users", map[string]string{
		"username": "cook", "name": "Again", "password": "kitchen1", "role": models.RoleKitchen,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/users", map[string]string{
		"username": "boss", "name": "Boss", "password": "short", "role": "owner",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "role")

	w, _ = doJSON(t, r, http.MethodPost, "/users", map[string]string{
		"username": "rider", "name": "Rider", "password": "short", "role": models.RoleDelivery,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPut, "/users/2", map[string]string{
		"username": "cook", "name": "Head Cook", "role": models.RoleStaff,
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	w, _ = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "cook", "password": "kitchen1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decode(t, env.Data, &users)
	assert.Len(t, users, 2)

	w, env = doJSON(t, r, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decode(t, env.Data, &me)
	assert.Equal(t, "admin", me.Username)

	w, _ = doJSON(t, r, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/users/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/users/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
