package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a conversation between exactly two users, optionally anchored to
// a property listing (renter contacting a landlord).
//
// The participant pair is stored sorted (low/high) so that (a,b) and (b,a)
// hit the same row, and the unique index on (property_id, participant_low,
// participant_high) turns the create-vs-create race into a constraint
// violation the handler retries as a lookup.
type Chat struct {
	ID         string  `gorm:"primaryKey;type:text" json:"id"`
	PropertyID *string `gorm:"index;type:text;uniqueIndex:idx_chat_property_pair" json:"propertyId"`

	ParticipantLow  string `gorm:"index;type:text;not null;uniqueIndex:idx_chat_property_pair" json:"-"`
	ParticipantHigh string `gorm:"index;type:text;not null;uniqueIndex:idx_chat_property_pair" json:"-"`

	CreatedAt time.Time `json:"createdAt"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Messages []Message `gorm:"foreignKey:ChatID" json:"-"`
}

func (ch *Chat) BeforeCreate(tx *gorm.DB) (err error) {
	if ch.ID == "" {
		ch.ID = uuid.New().String()
	}
	return
}

// NewChat builds a chat for the given pair, normalizing participant order.
func NewChat(userA, userB string, propertyID *string) Chat {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	return Chat{
		PropertyID:      propertyID,
		ParticipantLow:  low,
		ParticipantHigh: high,
	}
}

// SortPair returns the two ids in normalized (low, high) order.
func SortPair(userA, userB string) (string, string) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}

func (ch *Chat) HasParticipant(userID string) bool {
	return ch.ParticipantLow == userID || ch.ParticipantHigh == userID
}

// Participants returns the pair as a slice for API responses.
func (ch *Chat) Participants() []string {
	return []string{ch.ParticipantLow, ch.ParticipantHigh}
}

// OtherParticipant returns the peer of userID, or "" if userID is not a member.
func (ch *Chat) OtherParticipant(userID string) string {
	switch userID {
	case ch.ParticipantLow:
		return ch.ParticipantHigh
	case ch.ParticipantHigh:
		return ch.ParticipantLow
	}
	return ""
}

// ChatParticipant mirrors membership into a legacy join table kept for
// backward compatibility with older clients. Rows are written best-effort
// on chat creation; a failed insert is logged, not rolled back, so this
// table can drift from the pair columns.
type ChatParticipant struct {
	ChatID   string    `gorm:"primaryKey;type:text"`
	UserID   string    `gorm:"primaryKey;type:text"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// Message belongs to exactly one chat. The read flag only ever flips
// false -> true (mark-read endpoint, or as a side effect of the other
// participant fetching the message list).
type Message struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	ChatID   string `gorm:"index:idx_messages_chat_created;type:text;not null" json:"chatId"`
	SenderID string `gorm:"index;type:text;not null" json:"senderId"`
	Body     string `gorm:"type:text" json:"body"`
	IsRead   bool   `gorm:"default:false" json:"isRead"`

	CreatedAt time.Time `gorm:"index:idx_messages_chat_created" json:"createdAt"`

	Sender      User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:MessageID" json:"attachments"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// Attachment is a file reference carried by a message. The row exists only
// for uploads that actually reached blob storage; failed uploads are
// skipped without failing the send.
type Attachment struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	MessageID string `gorm:"index;type:text;not null" json:"messageId"`

	FileName   string `gorm:"type:text" json:"fileName"`
	Size       int64  `json:"size"`
	MimeType   string `gorm:"type:text" json:"mimeType"`
	StorageKey string `gorm:"type:text" json:"-"`
	URL        string `gorm:"type:text" json:"url"`

	CreatedAt time.Time `json:"createdAt"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
