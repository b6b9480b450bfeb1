// Package models defines the persistent records of the SchoolSpace backend:
// auth accounts, user profiles, feed posts, and password reset requests.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is an auth-service record. It is never exposed to clients directly;
// clients only ever see the derived Identity (id + email).
type Account struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Disabled     bool           `gorm:"default:false" json:"disabled"`
	// Failed sign-in tracking for rate limiting.
	FailedAttempts int        `json:"-"`
	LastFailedAt   *time.Time `json:"-"`
}

// Profile is the document-store record describing a user, keyed by the same
// id as the Account it belongs to. Field names on the wire match the mobile
// app's users collection.
type Profile struct {
	ID          string    `gorm:"primaryKey;size:64" json:"uid"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	DisplayName string    `gorm:"size:255" json:"displayName"`
	City        string    `gorm:"size:255" json:"city"`
	School      string    `gorm:"size:255" json:"school,omitempty"`
	ClassLabel  string    `gorm:"size:32" json:"class,omitempty"`
	AvatarURL   string    `gorm:"size:512" json:"photoURL"`
	IsAdmin     bool      `gorm:"default:false" json:"isAdmin"`
}

// Post is one feed entry. Author name and avatar are denormalized onto the
// post at creation time, the way the mobile app writes them.
type Post struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	AuthorID        string    `gorm:"size:64;index;not null" json:"uid"`
	AuthorName      string    `gorm:"size:255" json:"name"`
	AuthorAvatarURL string    `gorm:"size:512" json:"authorAv"`
	Text            string    `gorm:"size:4000" json:"text"`
	ImageURL        string    `gorm:"size:512" json:"image,omitempty"`
}

// PasswordReset records a requested reset flow. The dev backend only records
// the request; a managed backend would send the email.
type PasswordReset struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Email       string    `gorm:"size:255;index;not null" json:"email"`
	Token       string    `gorm:"size:128;not null" json:"-"`
	RequestedAt time.Time `json:"requested_at"`
}
