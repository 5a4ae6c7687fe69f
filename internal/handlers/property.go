package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/brendanx22/homeswift-backend/internal/database"
	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/brendanx22/homeswift-backend/pkg/logger"
	"github.com/brendanx22/homeswift-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const propertyCacheTTL = 5 * time.Minute

const maxDescriptionLength = 5000

type PropertyInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	City        string `json:"city"`
	Price       int64  `json:"price" binding:"required"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	ImageURL    string `json:"imageUrl"`
}

// ListProperties returns available listings, optionally filtered by city,
// price range, or a free-text search on title/location.
func ListProperties(c *gin.Context) {
	query := database.DB.Model(&models.Property{}).Where("status = ?", models.PropertyStatusAvailable)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("price <= ?", maxPrice)
	}
	if search := c.Query("q"); search != "" {
		term := utils.SanitizeSearchQuery(search)
		query = query.Where("title LIKE ? OR location LIKE ?", term, term)
	}

	var properties []models.Property
	if err := query.Order("created_at desc").Find(&properties).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to fetch properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// GetProperty returns a single listing, served from the Redis cache when
// warm. Cache misses and cache errors fall through to Postgres.
func GetProperty(c *gin.Context) {
	propertyID := c.Param("property_id")

	cacheKey := "property:" + propertyID
	if database.Redis != nil {
		var cached models.Property
		if err := database.CacheGet(cacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, gin.H{"property": cached})
			return
		}
	}

	var property models.Property
	if err := database.DB.Preload("Owner").First(&property, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		logger.Error().Err(err).Str("property_id", propertyID).Msg("Failed to fetch property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch property"})
		return
	}

	if database.Redis != nil {
		if err := database.CacheSet(cacheKey, property, propertyCacheTTL); err != nil {
			logger.Warn().Err(err).Str("property_id", propertyID).Msg("Failed to cache property")
		}
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// CreateProperty creates a listing owned by the authenticated landlord.
func CreateProperty(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Listing text is user-authored and rendered in client HTML
	property := models.Property{
		OwnerID:     userID,
		Title:       utils.StripHTML(input.Title),
		Description: utils.TruncateString(utils.SanitizeHTML(input.Description), maxDescriptionLength),
		Location:    input.Location,
		City:        input.City,
		Price:       input.Price,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		ImageURL:    input.ImageURL,
		Status:      models.PropertyStatusAvailable,
	}

	if err := database.DB.Create(&property).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// UpdateProperty updates a listing. Owner only.
func UpdateProperty(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	propertyID := c.Param("property_id")

	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch property"})
		return
	}

	if property.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this property"})
		return
	}

	var input PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property.Title = utils.StripHTML(input.Title)
	property.Description = utils.TruncateString(utils.SanitizeHTML(input.Description), maxDescriptionLength)
	property.Location = input.Location
	property.City = input.City
	property.Price = input.Price
	property.Bedrooms = input.Bedrooms
	property.Bathrooms = input.Bathrooms
	if input.ImageURL != "" {
		property.ImageURL = input.ImageURL
	}

	if err := database.DB.Save(&property).Error; err != nil {
		logger.Error().Err(err).Str("property_id", propertyID).Msg("Failed to update property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}

	if database.Redis != nil {
		if err := database.CacheInvalidate("property:" + propertyID); err != nil {
			logger.Warn().Err(err).Str("property_id", propertyID).Msg("Failed to invalidate property cache")
		}
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}
