package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/garage-app/internal/auth"
	"github.com/diewo77/garage-app/internal/httpx"
	"github.com/diewo77/garage-app/internal/models"
	"github.com/diewo77/garage-app/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

// sanitizedUser is what auth procedures hand back; never the password hash.
type sanitizedUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func sanitize(u models.User) sanitizedUser {
	return sanitizedUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// RegisterUser creates an account. Duplicate emails are a conflict; the
// default role is service advisor.
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &input) {
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.MinLen("password", input.Password, 6, v)
	validation.MinLen("name", strings.TrimSpace(input.Name), 2, v)
	validation.OneOf("role", input.Role, models.ValidRole, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_register", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_register", nil)
		return
	}
	role := input.Role
	if role == "" {
		role = models.RoleServiceAdvisor
	}
	user := models.User{
		Email:    input.Email,
		Password: string(hash),
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// Unique index may still trip under concurrent registration.
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_register", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, sanitize(user))
}

// Login verifies credentials and establishes the signed session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &input) {
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"email": "required", "password": "required"})
		return
	}
	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, sanitize(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the current session's user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		storeError(w, err, "failed_to_load_user")
		return
	}
	httpx.JSON(w, http.StatusOK, sanitize(user))
}

// GetUsers lists all accounts. Admin tier, enforced by the gate.
func (h *AuthHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("id desc").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	out := make([]sanitizedUser, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	httpx.JSON(w, http.StatusOK, out)
}
