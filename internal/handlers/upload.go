package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/brendanx22/homeswift-backend/internal/services"
	apperrors "github.com/brendanx22/homeswift-backend/pkg/errors"
	"github.com/brendanx22/homeswift-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

// UploadFile stores a single file in blob storage and returns its public
// URL. Used by listing forms for property photos; message attachments go
// through SendMessage instead.
func UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		// Older clients post under "image"
		file, header, err = c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid file field found"})
			return
		}
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("%s/%s%s", c.DefaultQuery("folder", "uploads"), utils.GenerateID(), ext)

	url, err := services.Storage.Upload(c.Request.Context(), key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.Error(apperrors.Internal("Upload failed: " + err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"key":      key,
		"mimetype": header.Header.Get("Content-Type"),
		"size":     header.Size,
	})
}

// UploadPropertyImage scopes uploads to the property images folder.
func UploadPropertyImage(c *gin.Context) {
	c.Request.URL.RawQuery = "folder=homeswift/properties"
	UploadFile(c)
}

// UploadAvatar scopes uploads to the avatars folder.
func UploadAvatar(c *gin.Context) {
	c.Request.URL.RawQuery = "folder=homeswift/avatars"
	UploadFile(c)
}
