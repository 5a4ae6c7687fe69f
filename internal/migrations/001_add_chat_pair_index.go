package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddChatPairIndex backs the conversation dedup contract with a
// unique index on (property_id, participant_low, participant_high). Two
// concurrent start-conversation calls for the same pair and property race
// on a read-then-write; the index makes the losing insert fail so the
// handler can retry it as a lookup instead of creating a duplicate thread.
func Migration001AddChatPairIndex() Migration {
	return Migration{
		ID:   "001_add_chat_pair_index",
		Name: "Add unique index on chat (property, participant pair)",
		Up: func(db *gorm.DB) error {
			idx := `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_property_pair
				ON chats (property_id, participant_low, participant_high)
			`
			return db.Exec(idx).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_chat_property_pair`).Error
		},
	}
}
