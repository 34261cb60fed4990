package gormstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

type userModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string {
	return "users"
}

// entryModel keeps a storage-level mood check so an invalid value can never
// land in the table even if handler validation is bypassed.
type entryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	Mood      string    `gorm:"not null;index;check:mood IN ('happy','sad','angry','anxious','neutral','excited','peaceful')"`
	Tags      []string  `gorm:"serializer:json"`
	Date      time.Time `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (entryModel) TableName() string {
	return "entries"
}

func (m *userModel) toDomain() *model.User {
	return &model.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		LastLogin:    m.LastLogin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userFromDomain(u *model.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *entryModel) toDomain() *model.Entry {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return &model.Entry{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   m.Content,
		Mood:      model.Mood(m.Mood),
		Tags:      tags,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func entryFromDomain(e *model.Entry) *entryModel {
	return &entryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      string(e.Mood),
		Tags:      e.Tags,
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
