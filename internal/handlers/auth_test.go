package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/brendanx22/homeswift-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"name":     "Ada",
		"email":    "ada.auth@example.com",
		"password": "longenough1",
		"userType": "renter",
	})
	Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.Token)

	claims, err := utils.ValidateToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "renter", claims.UserType)

	// Duplicate email
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"name":     "Ada again",
		"email":    "ada.auth@example.com",
		"password": "longenough1",
		"userType": "renter",
	})
	Register(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Bad user type
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/register", gin.H{
		"name":     "Sly",
		"email":    "sly@example.com",
		"password": "longenough1",
		"userType": "admin",
	})
	Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login round trip
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/login", gin.H{
		"email":    "ada.auth@example.com",
		"password": "longenough1",
	})
	Login(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/auth/login", gin.H{
		"email":    "ada.auth@example.com",
		"password": "wrongpassword",
	})
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
