package repository

import (
	"context"
	"errors"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/pkg/pg"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a contact does not exist.
	ErrNotFound = errors.New("contact not found")
)

type ContactRepository struct {
	*pg.DB
}

func NewContactRepository(db *pg.DB) *ContactRepository {
	return &ContactRepository{
		db,
	}
}

// Create stores c. A missing id or timestamp is filled in here.
func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	entity := toContactEntity(c)
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now().UTC()
	}

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toContactModel(entity), nil
}

// List returns every contact, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	var entities []*ContactEntity
	err := r.Read(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toContactModels(entities), nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var entity ContactEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toContactModel(&entity), nil
}

// UpdateStatus changes only the status column and returns the stored record.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.Contact, error) {
	var updated *model.Contact
	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		res := r.Write(ctx).
			Model(&ContactEntity{}).
			Where("id = ?", id).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var err error
		updated, err = r.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the row for good.
func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&ContactEntity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns how many contacts sit in each status. Statuses with
// no contacts are present with a zero count.
func (r *ContactRepository) CountByStatus(ctx context.Context) (map[model.ContactStatus]int64, error) {
	var rows []struct {
		Status model.ContactStatus
		Total  int64
	}
	err := r.Read(ctx).
		Model(&ContactEntity{}).
		Select("status, count(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ContactStatus]int64, len(model.ContactStatuses()))
	for _, s := range model.ContactStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
