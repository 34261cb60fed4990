package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

type entries struct {
	db *gorm.DB
}

func (r *entries) Create(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	m := entryFromDomain(e)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return r.GetByID(ctx, m.ID)
}

func (r *entries) GetByID(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	var m entryModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return m.toDomain(), nil
}

func (r *entries) GetOwned(ctx context.Context, userID, id uuid.UUID) (*model.Entry, error) {
	var m entryModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get owned entry: %w", err)
	}
	return m.toDomain(), nil
}

// List orders by date descending with id ascending as the tie-break so
// pagination over equal dates stays stable.
func (r *entries) List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, int64, error) {
	q := r.db.WithContext(ctx).Model(&entryModel{}).Where("user_id = ?", req.UserID)
	if req.Mood != nil {
		q = q.Where("mood = ?", string(*req.Mood))
	}
	if req.StartDate != nil {
		q = q.Where("date >= ?", *req.StartDate)
	}
	if req.EndDate != nil {
		q = q.Where("date <= ?", *req.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	var rows []entryModel
	err := q.Order("date DESC").Order("id ASC").
		Limit(req.Limit).
		Offset((req.Page - 1) * req.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	out := make([]*model.Entry, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, total, nil
}

func (r *entries) Update(ctx context.Context, e *model.Entry) (*model.Entry, error) {
	m := entryFromDomain(e)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return r.GetByID(ctx, m.ID)
}

func (r *entries) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&entryModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// MoodCounts aggregates entry counts per mood. Moods without entries in the
// range are absent from the result.
func (r *entries) MoodCounts(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.MoodCount, error) {
	q := r.db.WithContext(ctx).Model(&entryModel{}).Where("user_id = ?", userID)
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}

	var out []model.MoodCount
	err := q.Select("mood, COUNT(*) AS count").
		Group("mood").
		Order("mood ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("mood counts: %w", err)
	}
	return out, nil
}
