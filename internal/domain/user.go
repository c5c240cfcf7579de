package domain

import "time"

type User struct {
	ID           string    `bson:"_id" json:"_id"`
	Fullname     string    `bson:"fullname" json:"fullname"`
	DOB          string    `bson:"dob" json:"dob"`
	Phone        string    `bson:"phone" json:"phone"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	ProfileImage string    `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`

	Friends                []string `bson:"friends" json:"friends"`
	FriendRequestsSent     []string `bson:"friend_requests_sent" json:"friendRequestsSent"`
	FriendRequestsReceived []string `bson:"friend_requests_received" json:"friendRequestsReceived"`
}

// Summary is the public projection used by the directory and friend lists.
type Summary struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profile,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Fullname, Email: u.Email, ProfileImage: u.ProfileImage}
}

func (u *User) IsFriend(id string) bool { return contains(u.Friends, id) }

func (u *User) HasPendingRequestFrom(id string) bool {
	return contains(u.FriendRequestsReceived, id)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
