package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brendanx22/homeswift-backend/internal/middleware"
	"github.com/brendanx22/homeswift-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func uploadRequest(t *testing.T) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "house.png")
	assert.NoError(t, err)
	part.Write([]byte("png bytes"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/upload/property-image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadPropertyImage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uploader := &fakeUploader{}
	services.Storage = uploader
	defer func() { services.Storage = nil }()

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.POST("/api/upload/property-image", UploadPropertyImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	url, _ := resp["url"].(string)
	assert.Contains(t, url, "homeswift/properties/")
	assert.Len(t, uploader.keys, 1)
}

func TestUploadPropertyImage_StorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	services.Storage = &fakeUploader{fail: true}
	defer func() { services.Storage = nil }()

	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())
	r.POST("/api/upload/property-image", UploadPropertyImage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Upload failed")
}
