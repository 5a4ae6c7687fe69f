package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brendanx22/homeswift-backend/internal/config"
	"github.com/brendanx22/homeswift-backend/internal/database"
	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/brendanx22/homeswift-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// paystackBaseURL is swapped for a test server in payment tests.
var paystackBaseURL = "https://api.paystack.co"

// paystackClient bounds the verify round trip.
var paystackClient = &http.Client{Timeout: 30 * time.Second}

type InitializePaymentInput struct {
	PropertyID string `json:"property_id" binding:"required"`
	Reference  string `json:"reference" binding:"required"`
}

type paystackVerifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
	} `json:"data"`
}

// InitializePayment records a pending booking for a property. The client
// completes the charge against Paystack directly and comes back with the
// transaction reference for verification.
func InitializePayment(c *gin.Context) {
	userID := c.MustGet("userId").(string)

	var input InitializePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", input.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch property"})
		return
	}

	booking := models.Booking{
		PropertyID:       input.PropertyID,
		UserID:           userID,
		Amount:           property.Price,
		PaymentStatus:    models.PaymentStatusPending,
		PaymentReference: input.Reference,
	}
	if err := database.DB.Create(&booking).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// VerifyPayment asks Paystack whether the referenced transaction succeeded
// and, if so, marks the matching booking paid. Pure proxying: the gateway
// owns the transaction state.
func VerifyPayment(c *gin.Context) {
	userID := c.MustGet("userId").(string)
	reference := c.Param("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference required"})
		return
	}

	var booking models.Booking
	err := database.DB.
		Where("payment_reference = ? AND user_id = ?", reference, userID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found for reference"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}

	secretKey := config.AppConfig.PaystackSecretKey
	if secretKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway not configured"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		fmt.Sprintf("%s/transaction/verify/%s", paystackBaseURL, reference), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	req.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := paystackClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("reference", reference).Msg("Paystack verify request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment verification unavailable"})
		return
	}
	defer resp.Body.Close()

	var verify paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil {
		logger.Error().Err(err).Str("reference", reference).Msg("Failed to decode Paystack response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment verification unavailable"})
		return
	}

	if !verify.Status || verify.Data.Status != "success" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not successful", "gateway_status": verify.Data.Status})
		return
	}

	booking.PaymentStatus = models.PaymentStatusPaid
	if err := database.DB.Save(&booking).Error; err != nil {
		logger.Error().Err(err).Str("booking_id", booking.ID).Msg("Failed to mark booking paid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}
