package domain

import (
	"time"
)

// User owns a meal collection and a plan. Its ID is the ownerId everywhere else.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`    // Should be unique
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON
	IsDemo       bool      `bson:"isDemo" json:"isDemo"`
	Reminder     *Reminder `bson:"reminder,omitempty" json:"reminder,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Reminder is the weekly "plan your meals" notification preference.
// Delivery happens elsewhere; only the registration is stored.
type Reminder struct {
	Enabled   bool   `bson:"enabled" json:"enabled"`
	Weekday   int    `bson:"weekday" json:"weekday"` // 0 = Sunday
	Hour      int    `bson:"hour" json:"hour"`
	Minute    int    `bson:"minute" json:"minute"`
	PushToken string `bson:"pushToken,omitempty" json:"pushToken,omitempty"`
}
