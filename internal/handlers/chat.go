package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/brendanx22/homeswift-backend/internal/database"
	"github.com/brendanx22/homeswift-backend/internal/models"
	"github.com/brendanx22/homeswift-backend/internal/services"
	"github.com/brendanx22/homeswift-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationSummary is one row of the inbox view: the chat plus its most
// recent message and how many messages from the other party are unread.
type ConversationSummary struct {
	ChatID          string    `json:"chat_id"`
	PropertyID      *string   `json:"property_id"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessage     *string   `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
	OtherUser       *UserInfo `json:"other_user,omitempty"`
}

// UserInfo is the display subset of a user embedded in chat payloads.
type UserInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// ListConversations returns all conversations the user participates in.
//
// Latest-message and unread-count lookups are best-effort per conversation:
// if one fails, that row degrades to {last_message: null, last_message_time:
// created_at, unread_count: 0} instead of failing the whole request. No read
// flags are touched here.
func ListConversations(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	userID := c.Param("user_id")

	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}
	if userID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot list another user's conversations"})
		return
	}

	var chats []models.Chat
	err := database.DB.
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Find(&chats).Error
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch conversations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	summaries := make([]ConversationSummary, 0, len(chats))
	for _, chat := range chats {
		summary := ConversationSummary{
			ChatID:          chat.ID,
			PropertyID:      chat.PropertyID,
			CreatedAt:       chat.CreatedAt,
			LastMessage:     nil,
			LastMessageTime: chat.CreatedAt,
			UnreadCount:     0,
		}

		var last models.Message
		err := database.DB.
			Where("chat_id = ?", chat.ID).
			Order("created_at desc").
			First(&last).Error
		switch {
		case err == nil:
			summary.LastMessage = &last.Body
			summary.LastMessageTime = last.CreatedAt
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Empty conversation, keep the fallback values
		default:
			logger.Warn().Err(err).Str("chat_id", chat.ID).Msg("Failed to fetch latest message, degrading summary")
		}

		if err == nil {
			var unread int64
			countErr := database.DB.Model(&models.Message{}).
				Where("chat_id = ? AND sender_id != ? AND is_read = ?", chat.ID, userID, false).
				Count(&unread).Error
			if countErr != nil {
				logger.Warn().Err(countErr).Str("chat_id", chat.ID).Msg("Failed to count unread messages, degrading summary")
			} else {
				summary.UnreadCount = unread
			}
		}

		// Peer display info is also best-effort
		var other models.User
		if otherID := chat.OtherParticipant(userID); otherID != "" {
			if err := database.DB.Select("id", "name", "avatar_url").First(&other, "id = ?", otherID).Error; err == nil {
				summary.OtherUser = &UserInfo{ID: other.ID, Name: other.Name, AvatarURL: other.AvatarURL}
			}
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageTime.After(summaries[j].LastMessageTime)
	})

	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

type StartConversationInput struct {
	UserID     string `json:"user_id"`
	OwnerID    string `json:"owner_id" binding:"required"`
	PropertyID string `json:"property_id" binding:"required"`
}

// StartConversation creates a conversation between the caller and a
// property's landlord, or returns the existing one for the same pair and
// property. The pair is normalized before lookup so participant order never
// produces a second conversation.
func StartConversation(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)

	var input StartConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.UserID != "" && input.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot start a conversation on behalf of another user"})
		return
	}

	var property models.Property
	if err := database.DB.First(&property, "id = ?", input.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		logger.Error().Err(err).Str("property_id", input.PropertyID).Msg("Failed to fetch property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch property"})
		return
	}

	if property.OwnerID != input.OwnerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "User is not the landlord of this property"})
		return
	}

	low, high := models.SortPair(currentUserID, input.OwnerID)

	var existing models.Chat
	err := database.DB.
		Where("property_id = ? AND participant_low = ? AND participant_high = ?", input.PropertyID, low, high).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"chat_id": existing.ID, "existing": true})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).Msg("Conversation lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start conversation"})
		return
	}

	propertyID := input.PropertyID
	chat := models.NewChat(currentUserID, input.OwnerID, &propertyID)
	if err := database.DB.Create(&chat).Error; err != nil {
		// Concurrent create for the same pair trips the unique index on
		// (property_id, participant_low, participant_high); the loser
		// retries as a lookup.
		if isDuplicateKey(err) {
			if lookupErr := database.DB.
				Where("property_id = ? AND participant_low = ? AND participant_high = ?", input.PropertyID, low, high).
				First(&existing).Error; lookupErr == nil {
				c.JSON(http.StatusOK, gin.H{"chat_id": existing.ID, "existing": true})
				return
			}
		}
		logger.Error().Err(err).Msg("Failed to create conversation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start conversation"})
		return
	}

	// Legacy chat_participants rows for older clients. Best-effort: a
	// failed insert is logged, never rolled back, so this table can lag
	// behind the pair columns.
	for _, userID := range chat.Participants() {
		if err := database.DB.Create(&models.ChatParticipant{ChatID: chat.ID, UserID: userID}).Error; err != nil {
			logger.Warn().Err(err).Str("chat_id", chat.ID).Str("user_id", userID).Msg("Failed to write chat participant row")
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"chat_id":     chat.ID,
		"property_id": chat.PropertyID,
		"created_at":  chat.CreatedAt,
		"new":         true,
	})
}

// GetMessages returns a conversation's messages oldest-first plus chat
// context (property, participants).
//
// Viewing the list acknowledges the other party's unread messages: their ids
// are collected and flipped read in one batched update. A message that
// arrives between the select and the update is missed this round and caught
// on the next fetch.
func GetMessages(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	chatID := c.Param("chat_id")

	chat, ok := loadChatForParticipant(c, chatID, currentUserID)
	if !ok {
		return
	}

	var messages []models.Message
	err := database.DB.
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Preload("Sender").
		Preload("Attachments").
		Find(&messages).Error
	if err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to fetch messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	// Chat context is best-effort: a failed property fetch degrades to null
	// rather than failing the call.
	var chatContext gin.H
	if chat.PropertyID != nil {
		var property models.Property
		if err := database.DB.First(&property, "id = ?", *chat.PropertyID).Error; err != nil {
			logger.Warn().Err(err).Str("chat_id", chatID).Msg("Failed to fetch chat property, returning without context")
		} else {
			chatContext = gin.H{
				"property":         property,
				"participants":     chat.Participants(),
				"is_landlord_chat": chat.HasParticipant(property.OwnerID),
			}
		}
	} else {
		chatContext = gin.H{
			"property":         nil,
			"participants":     chat.Participants(),
			"is_landlord_chat": false,
		}
	}

	// Read-on-fetch: mark the other party's unread messages read. Never
	// touches the fetcher's own messages.
	var unreadIDs []string
	for i := range messages {
		if messages[i].SenderID != currentUserID && !messages[i].IsRead {
			unreadIDs = append(unreadIDs, messages[i].ID)
		}
	}
	if len(unreadIDs) > 0 {
		err := database.DB.Model(&models.Message{}).
			Where("id IN ?", unreadIDs).
			Update("is_read", true).Error
		if err != nil {
			logger.Warn().Err(err).Str("chat_id", chatID).Msg("Failed to mark messages read on fetch")
		} else {
			for i := range messages {
				if messages[i].SenderID != currentUserID {
					messages[i].IsRead = true
				}
			}
			notifyParticipants("messages_read", []string{chat.OtherParticipant(currentUserID)}, map[string]interface{}{
				"chat_id": chatID,
				"user_id": currentUserID,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":     messages,
		"chat_context": chatContext,
	})
}

// SendMessage creates a message in a conversation the sender belongs to.
// Accepts JSON for text-only sends or multipart with an "attachments" field.
//
// Attachment uploads are isolated: a failed upload is logged and skipped,
// and the message row is never rolled back because of one. Delivery of the
// text beats completeness of the attachment list.
func SendMessage(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)

	var chatID, body string
	isMultipart := strings.HasPrefix(c.ContentType(), "multipart/form-data")
	if isMultipart {
		chatID = c.PostForm("chat_id")
		body = c.PostForm("message")
	} else {
		var input struct {
			ChatID  string `json:"chat_id"`
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		chatID = input.ChatID
		body = input.Message
	}

	body = strings.TrimSpace(body)
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id required"})
		return
	}

	var files []*multipart.FileHeader
	if isMultipart {
		form, err := c.MultipartForm()
		if err == nil && form != nil {
			files = form.File["attachments"]
		}
	}

	if body == "" && len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message text or at least one attachment is required"})
		return
	}

	chat, ok := loadChatForParticipant(c, chatID, currentUserID)
	if !ok {
		return
	}

	msg := models.Message{
		ChatID:   chatID,
		SenderID: currentUserID,
		Body:     body,
		IsRead:   false,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to send message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	msg.Attachments = uploadAttachments(c, chat.ID, msg.ID, files)

	// Sender display data for the response; degraded silently if missing
	database.DB.First(&msg.Sender, "id = ?", currentUserID)

	notifyParticipants("receive_message", chat.Participants(), map[string]interface{}{
		"chat_id": chat.ID,
		"message": msg,
	})

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkMessagesRead flips every unread message from the other party to read.
// Idempotent: a second call finds nothing unread and affects zero rows.
func MarkMessagesRead(c *gin.Context) {
	currentUserID := c.MustGet("userId").(string)
	chatID := c.Param("chat_id")

	chat, ok := loadChatForParticipant(c, chatID, currentUserID)
	if !ok {
		return
	}

	result := database.DB.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id != ? AND is_read = ?", chatID, currentUserID, false).
		Update("is_read", true)
	if result.Error != nil {
		logger.Error().Err(result.Error).Str("chat_id", chatID).Msg("Failed to mark messages read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
		return
	}

	if result.RowsAffected > 0 {
		notifyParticipants("messages_read", []string{chat.OtherParticipant(currentUserID)}, map[string]interface{}{
			"chat_id": chatID,
			"user_id": currentUserID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "marked_read": result.RowsAffected})
}

// -- Helpers -- //

// loadChatForParticipant fetches the chat and enforces membership. On
// failure it writes the error response and returns ok=false.
func loadChatForParticipant(c *gin.Context, chatID, userID string) (*models.Chat, bool) {
	if chatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id required"})
		return nil, false
	}

	var chat models.Chat
	if err := database.DB.First(&chat, "id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return nil, false
		}
		logger.Error().Err(err).Str("chat_id", chatID).Msg("Failed to fetch conversation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return nil, false
	}

	if !chat.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this conversation"})
		return nil, false
	}

	return &chat, true
}

// uploadAttachments pushes each file to blob storage and records the ones
// that made it. Failures are logged and skipped.
func uploadAttachments(c *gin.Context, chatID, messageID string, files []*multipart.FileHeader) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(files))

	for _, fh := range files {
		if err := ValidateAttachment(fh); err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Msg("Rejected attachment, skipping")
			continue
		}

		file, err := fh.Open()
		if err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Msg("Failed to open attachment, skipping")
			continue
		}

		key := attachmentKey(chatID, fh.Filename)
		contentType := fh.Header.Get("Content-Type")

		url, err := services.Storage.Upload(c.Request.Context(), key, file, contentType)
		file.Close()
		if err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Str("chat_id", chatID).Msg("Attachment upload failed, skipping")
			continue
		}

		attachment := models.Attachment{
			MessageID:  messageID,
			FileName:   fh.Filename,
			Size:       fh.Size,
			MimeType:   contentType,
			StorageKey: key,
			URL:        url,
		}
		if err := database.DB.Create(&attachment).Error; err != nil {
			logger.Warn().Err(err).Str("file", fh.Filename).Msg("Failed to record attachment, skipping")
			continue
		}
		attachments = append(attachments, attachment)
	}

	return attachments
}

// attachmentKey derives a collision-resistant storage key: conversation id,
// timestamp, random suffix, original extension.
func attachmentKey(chatID, filename string) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("chat/%s/%d-%s%s", chatID, time.Now().UnixNano(), suffix, filepath.Ext(filename))
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Postgres and sqlite phrase unique violations differently and GORM's
	// error translation is off for this connection.
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
