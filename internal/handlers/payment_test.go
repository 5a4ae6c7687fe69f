package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brendanx22/homeswift-backend/internal/config"
	"github.com/brendanx22/homeswift-backend/internal/database"
	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestVerifyPayment_MarksBookingPaid(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	config.AppConfig.PaystackSecretKey = "sk_test_x"

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(gin.H{
			"status": true,
			"data":   gin.H{"status": "success", "amount": 250000, "reference": "ref_123"},
		})
	}))
	defer gateway.Close()

	oldBase := paystackBaseURL
	paystackBaseURL = gateway.URL
	defer func() { paystackBaseURL = oldBase }()

	renter := models.User{ID: "payer", Email: "payer@example.com"}
	database.DB.Create(&renter)
	database.DB.Create(&models.Booking{ID: "b1", PropertyID: "propX", UserID: renter.ID, Amount: 250000, PaymentStatus: models.PaymentStatusPending, PaymentReference: "ref_123"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/payments/verify/ref_123", nil)
	c.Params = gin.Params{{Key: "reference", Value: "ref_123"}}
	c.Set("userId", renter.ID)

	VerifyPayment(c)
	assert.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	database.DB.First(&booking, "id = ?", "b1")
	assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
}

func TestVerifyPayment_GatewayFailure(t *testing.T) {
	SetupTestDB()
	gin.SetMode(gin.TestMode)
	config.AppConfig.PaystackSecretKey = "sk_test_x"

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gin.H{
			"status": true,
			"data":   gin.H{"status": "failed", "reference": "ref_bad"},
		})
	}))
	defer gateway.Close()

	oldBase := paystackBaseURL
	paystackBaseURL = gateway.URL
	defer func() { paystackBaseURL = oldBase }()

	renter := models.User{ID: "payer2", Email: "payer2@example.com"}
	database.DB.Create(&renter)
	database.DB.Create(&models.Booking{ID: "b2", PropertyID: "propY", UserID: renter.ID, PaymentStatus: models.PaymentStatusPending, PaymentReference: "ref_bad"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/payments/verify/ref_bad", nil)
	c.Params = gin.Params{{Key: "reference", Value: "ref_bad"}}
	c.Set("userId", renter.ID)

	VerifyPayment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Booking stays pending
	var booking models.Booking
	database.DB.First(&booking, "id = ?", "b2")
	assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)

	// Unknown reference
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/payments/verify/ref_missing", nil)
	c.Params = gin.Params{{Key: "reference", Value: "ref_missing"}}
	c.Set("userId", renter.ID)
	VerifyPayment(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
