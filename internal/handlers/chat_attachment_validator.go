package handlers

import (
	"errors"
	"mime/multipart"
	"strings"
)

// Maximum attachment size. Larger files belong on the property listing
// itself, not in chat.
const maxAttachmentSize = 10 << 20 // 10 MiB

// Curated attachment types: images plus the documents people actually send
// while renting (leases, application forms).
var allowedAttachmentTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
	"application/pdf",
}

// ValidateAttachment checks an uploaded file before it is pushed to blob
// storage. A rejected attachment is skipped like a failed upload; it never
// fails the send.
func ValidateAttachment(fh *multipart.FileHeader) error {
	if fh.Size > maxAttachmentSize {
		return errors.New("attachment exceeds 10MB limit")
	}
	if fh.Size == 0 {
		return errors.New("attachment is empty")
	}

	contentType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	// Strip parameters like "; charset=binary"
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	for _, allowed := range allowedAttachmentTypes {
		if contentType == allowed {
			return nil
		}
	}
	return errors.New("attachment type not allowed: " + contentType)
}
