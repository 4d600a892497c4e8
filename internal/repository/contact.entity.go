package repository

import (
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/google/uuid"
)

type ContactEntity struct {
	ID        uuid.UUID           `db:"id"         gorm:"primaryKey;type:uuid;column:id"`
	Name      string              `db:"name"       gorm:"column:name;not null"`
	Phone     string              `db:"phone"      gorm:"column:phone;not null"`
	Message   string              `db:"message"    gorm:"column:message;type:text;not null"`
	Status    model.ContactStatus `db:"status"     gorm:"column:status;type:varchar(16);not null;index"`
	CreatedAt time.Time           `db:"created_at" gorm:"column:created_at;autoCreateTime;index"`
}

func (ContactEntity) TableName() string {
	return "contacts"
}

func toContactEntity(c *model.Contact) *ContactEntity {
	if c == nil {
		return nil
	}
	return &ContactEntity{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Message:   c.Message,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

func toContactModel(e *ContactEntity) *model.Contact {
	if e == nil {
		return nil
	}
	return &model.Contact{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Message:   e.Message,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

func toContactModels(entities []*ContactEntity) []*model.Contact {
	models := make([]*model.Contact, len(entities))
	for i, e := range entities {
		models[i] = toContactModel(e)
	}
	return models
}
