package models

import "time"

// Account roles. Identity and role arrive from the upstream auth layer and
// are trusted as given.
const (
	RoleClient   = "client"
	RoleMassager = "massager"
	RoleAdmin    = "admin"
)

// Actor is the authenticated identity attached to every request.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// User is a minimal account record. Registration, passwords and sessions are
// handled upstream; users exist here to anchor booking and rating references.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"` // Ethiopian format, +251XXXXXXXXX
	Role      string    `bson:"role" json:"role"`
	Gender    string    `bson:"gender,omitempty" json:"gender,omitempty"`
	Location  string    `bson:"location,omitempty" json:"location,omitempty"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
