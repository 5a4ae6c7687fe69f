package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddMessageIndexes adds indexes for the two hot message
// queries: the ordered per-conversation fetch and the unread count scan.
func Migration002AddMessageIndexes() Migration {
	return Migration{
		ID:   "002_add_message_indexes",
		Name: "Add message hot-path indexes",
		Up: func(db *gorm.DB) error {
			// Ordered fetch: WHERE chat_id = ? ORDER BY created_at
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_messages_chat_created
				ON messages (chat_id, created_at)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			// Unread scan: WHERE chat_id = ? AND sender_id != ? AND is_read = false
			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_messages_unread
				ON messages (chat_id, is_read, sender_id)
			`
			return db.Exec(idx2).Error
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_messages_unread`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_messages_chat_created`).Error
		},
	}
}
