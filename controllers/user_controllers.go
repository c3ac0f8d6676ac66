package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := services.Authenticate(c.Request.Context(), uc.DB, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.InfoLogger.Warnf("Failed login for %q from %s", input.Username, c.ClientIP())
			utils.RespondError(c, http.StatusUnauthorized, err)
			return
		}
		respondServiceError(c, err)
		return
	}

	token, expiresAt, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Infof("Login successful for user: %s, role: %s", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// Logout revokes the token used for this request until it expires.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString("token")
	until := time.Now().Add(24 * time.Hour)
	if claims, ok := c.Get("claims"); ok {
		if cc, ok := claims.(*utils.CustomClaims); ok && cc.ExpiresAt != nil {
			until = cc.ExpiresAt.Time
		}
	}
	utils.BlacklistToken(token, until)

	utils.InfoLogger.Infof("User %s logged out", c.GetString("username"))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> the user behind the token
func (uc *UserController) GetProfile(c *gin.Context) {
	var user models.User
	if err := uc.DB.First(&user, c.GetUint("user_id")).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("username ASC").Find(&users).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

type userRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required,oneof=admin staff kitchen delivery"`
}

// Register creates a user. Admin only.
func (uc *UserController) Register(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Password) < 6 {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidPassword)
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Infof("New user registered: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// UpdateUser changes profile and role. An empty password keeps the old one.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	user.Username = strings.TrimSpace(req.Username)
	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	if req.Password != "" {
		if len(req.Password) < 6 {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidPassword)
			return
		}
		if user.Password, err = services.HashPassword(req.Password); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if id == c.GetUint("user_id") {
		utils.RespondError(c, http.StatusConflict, errors.New("you cannot delete your own account"))
		return
	}

	result := uc.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		respondServiceError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondServiceError(c, gorm.ErrRecordNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}
