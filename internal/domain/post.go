package domain

import "time"

type Comment struct {
	ID        string    `bson:"_id" json:"_id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type Post struct {
	ID        string    `bson:"_id" json:"_id"`
	UserID    string    `bson:"user_id" json:"userId"`
	Caption   string    `bson:"caption" json:"caption"`
	Likes     int       `bson:"likes" json:"likes"`
	LikedBy   []string  `bson:"liked_by" json:"likedByUsers"`
	Comments  []Comment `bson:"comments" json:"comments"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (p *Post) LikedByUser(id string) bool { return contains(p.LikedBy, id) }

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}
