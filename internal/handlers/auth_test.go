package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/luaygitaris/appChat/internal/database"
	"github.com/luaygitaris/appChat/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_CreatesUserAndToken(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	c, w := testContext("", "POST", "/api/auth/register", map[string]string{
		"name":     "Xena",
		"email":    "x@example.com",
		"password": "hunter22",
	}, nil)
	Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "x@example.com", response.User.Email)

	// Stored hash is never the raw password and never serialized
	var stored models.User
	database.DB.First(&stored, "email = ?", "x@example.com")
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NotContains(t, w.Body.String(), stored.Password)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedUser("ux", "Xena", "x@example.com")

	c, w := testContext("", "POST", "/api/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "x@example.com",
		"password": "hunter22",
	}, nil)
	Register(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_ValidAndInvalidCredentials(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	database.DB.Create(&models.User{ID: "ux", Name: "Xena", Email: "x@example.com", Password: string(hash)})

	c, w := testContext("", "POST", "/api/auth/login", map[string]string{
		"email":    "x@example.com",
		"password": "hunter22",
	}, nil)
	Login(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response.Token)

	c, w = testContext("", "POST", "/api/auth/login", map[string]string{
		"email":    "x@example.com",
		"password": "wrong",
	}, nil)
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_FederatedAccountHasNoPassword(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	// Created through Google sign-in: no local credential hash
	database.DB.Create(&models.User{ID: "ug", Name: "Gia", Email: "g@example.com"})

	c, w := testContext("", "POST", "/api/auth/login", map[string]string{
		"email":    "g@example.com",
		"password": "anything",
	}, nil)
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchUsers_ByEmailFragment(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	seedUser("ux", "Xena", "xena@example.com")
	seedUser("uy", "Yuri", "yuri@example.com")

	c, w := testContext("ux", "GET", "/api/users?email=YURI", nil, nil)
	SearchUsers(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var users []UserSummary
	json.Unmarshal(w.Body.Bytes(), &users)
	assert.Len(t, users, 1)
	if len(users) == 1 {
		assert.Equal(t, "uy", users[0].ID)
	}
}
