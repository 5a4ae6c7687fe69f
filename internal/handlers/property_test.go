package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brendanx22/homeswift-backend/internal/database"
	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateAndGetProperty(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	landlord := models.User{ID: "land_prop", Name: "Bisi", Email: "bisi@example.com", UserType: models.UserTypeLandlord}
	database.DB.Create(&landlord)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/properties", gin.H{
		"title": "3BR Duplex",
		"city":  "Abuja",
		"price": 400000,
	})
	c.Set("userId", landlord.ID)
	CreateProperty(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Property models.Property `json:"property"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	assert.Equal(t, landlord.ID, created.Property.OwnerID)
	assert.Equal(t, models.PropertyStatusAvailable, created.Property.Status)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/properties/"+created.Property.ID, nil)
	c.Params = gin.Params{{Key: "property_id", Value: created.Property.ID}}
	GetProperty(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Unknown listing
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/properties/ghost", nil)
	c.Params = gin.Params{{Key: "property_id", Value: "ghost"}}
	GetProperty(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProperty_OwnerOnly(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "owner_u", Email: "owner@example.com", UserType: models.UserTypeLandlord}
	other := models.User{ID: "other_u", Email: "other@example.com", UserType: models.UserTypeLandlord}
	database.DB.Create(&owner)
	database.DB.Create(&other)

	property := models.Property{ID: "prop_upd", OwnerID: owner.ID, Title: "Old title", Price: 100}
	database.DB.Create(&property)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/api/properties/prop_upd", gin.H{"title": "New title", "price": 200})
	c.Params = gin.Params{{Key: "property_id", Value: "prop_upd"}}
	c.Set("userId", other.ID)
	UpdateProperty(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/api/properties/prop_upd", gin.H{"title": "New title", "price": 200})
	c.Params = gin.Params{{Key: "property_id", Value: "prop_upd"}}
	c.Set("userId", owner.ID)
	UpdateProperty(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Property
	database.DB.First(&updated, "id = ?", "prop_upd")
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, int64(200), updated.Price)
}

func TestCreateProperty_SanitizesListingText(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	landlord := models.User{ID: "land_san", Email: "san@example.com", UserType: models.UserTypeLandlord}
	database.DB.Create(&landlord)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/properties", gin.H{
		"title":       "Sea view <b>flat</b>",
		"description": "<script>alert(1)</script> near the beach",
		"price":       250000,
	})
	c.Set("userId", landlord.ID)
	CreateProperty(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Property models.Property `json:"property"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)

	// Tags stripped from titles, escaped in descriptions
	assert.Equal(t, "Sea view flat", created.Property.Title)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt; near the beach", created.Property.Description)

	// Oversized descriptions are cut on update
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/api/properties/"+created.Property.ID, gin.H{
		"title":       "Sea view flat",
		"description": strings.Repeat("a", maxDescriptionLength+500),
		"price":       250000,
	})
	c.Params = gin.Params{{Key: "property_id", Value: created.Property.ID}}
	c.Set("userId", landlord.ID)
	UpdateProperty(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Property
	database.DB.First(&updated, "id = ?", created.Property.ID)
	assert.Len(t, updated.Description, maxDescriptionLength)
}

func TestListProperties_Filters(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)

	owner := models.User{ID: "owner_f", Email: "ownerf@example.com", UserType: models.UserTypeLandlord}
	database.DB.Create(&owner)
	database.DB.Create(&models.Property{ID: "p1", OwnerID: owner.ID, Title: "Lagos flat", City: "Lagos", Price: 100, Status: models.PropertyStatusAvailable})
	database.DB.Create(&models.Property{ID: "p2", OwnerID: owner.ID, Title: "Abuja flat", City: "Abuja", Price: 300, Status: models.PropertyStatusAvailable})
	database.DB.Create(&models.Property{ID: "p3", OwnerID: owner.ID, Title: "Rented out", City: "Lagos", Price: 100, Status: models.PropertyStatusRented})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/properties?city=Lagos", nil)
	ListProperties(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Properties []models.Property `json:"properties"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	// Rented listing excluded, Abuja filtered out
	assert.Len(t, resp.Properties, 1)
	assert.Equal(t, "p1", resp.Properties[0].ID)
}
