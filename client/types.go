package client

import "time"

// The permitted mood values, mirrored from the server's closed enum.
const (
	MoodHappy    = "happy"
	MoodSad      = "sad"
	MoodAngry    = "angry"
	MoodAnxious  = "anxious"
	MoodNeutral  = "neutral"
	MoodExcited  = "excited"
	MoodPeaceful = "peaceful"
)

// User is the account snapshot the server returns. The password never
// appears in any payload.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Entry is a journal entry as returned by the server.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Tags      []string  `json:"tags"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination describes the window a listing covers.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// MoodCount is one bucket of the mood statistics.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}

// CreateEntryRequest carries fields for a new entry. Tags and Date are
// optional; the server defaults them.
type CreateEntryRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Mood    string     `json:"mood"`
	Tags    []string   `json:"tags,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// UpdateEntryRequest is a partial update; nil fields retain prior values.
type UpdateEntryRequest struct {
	Title   *string    `json:"title,omitempty"`
	Content *string    `json:"content,omitempty"`
	Mood    *string    `json:"mood,omitempty"`
	Tags    []string   `json:"tags,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// ListEntriesParams filters a listing. Zero values are omitted from the
// query string and the server applies its defaults.
type ListEntriesParams struct {
	Page      int
	Limit     int
	Mood      string
	StartDate *time.Time
	EndDate   *time.Time
}

// EntriesPage is one page of entries plus its pagination block.
type EntriesPage struct {
	Entries    []Entry    `json:"entries"`
	Pagination Pagination `json:"pagination"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}
