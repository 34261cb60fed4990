package model

import (
	"time"

	"github.com/google/uuid"
)

// Mood is the closed set of moods an entry can be tagged with.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
	MoodAnxious  Mood = "anxious"
	MoodNeutral  Mood = "neutral"
	MoodExcited  Mood = "excited"
	MoodPeaceful Mood = "peaceful"
)

// Moods lists every permitted mood value in a fixed order.
var Moods = []Mood{
	MoodHappy,
	MoodSad,
	MoodAngry,
	MoodAnxious,
	MoodNeutral,
	MoodExcited,
	MoodPeaceful,
}

// Valid reports whether m is one of the permitted mood values.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Entry is a single journal entry. The owning user id is enforced on every
// read and mutation but never exposed in payloads.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Tags      []string  `json:"tags"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListEntriesRequest captures the filters for a paginated entry listing.
// Page is 1-indexed; Limit is clamped by the service to [1,100].
type ListEntriesRequest struct {
	UserID    uuid.UUID
	Page      int
	Limit     int
	Mood      *Mood
	StartDate *time.Time
	EndDate   *time.Time
}

// Pagination describes the window a listing response covers.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// MoodCount is one aggregate bucket in the mood statistics. Moods with no
// entries in the requested range are omitted, not zero-filled.
type MoodCount struct {
	Mood  Mood  `json:"mood"`
	Count int64 `json:"count"`
}
