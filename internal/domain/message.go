package domain

import "time"

// Message is a direct message between two users. There are no group
// semantics: a message belongs to exactly the {From, To} pair, only the
// sender may edit it, and deletes are hard deletes.
type Message struct {
	ID        string     `bson:"_id" json:"_id"`
	From      string     `bson:"from" json:"from"`
	To        string     `bson:"to" json:"to"`
	Text      string     `bson:"text" json:"text"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	EditedAt  *time.Time `bson:"edited_at,omitempty" json:"editedAt,omitempty"`
	IsEdited  bool       `bson:"is_edited" json:"isEdited"`
}

// Party reports whether id is the sender or the recipient.
func (m *Message) Party(id string) bool {
	return m.From == id || m.To == id
}
