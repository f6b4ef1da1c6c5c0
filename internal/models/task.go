package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Task is the only persisted entity. Identity and timestamps are owned by the
// persistence layer: the id is assigned in BeforeCreate and gorm maintains
// CreatedAt/UpdatedAt.
type Task struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title     string    `json:"title" gorm:"not null"`
	Color     string    `json:"color" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// TaskChanges is a full-field update. A nil Completed leaves the stored flag untouched.
type TaskChanges struct {
	Title     string
	Color     string
	Completed *bool
}

// TaskFilter narrows count queries. A nil Completed matches every row.
type TaskFilter struct {
	Completed *bool
}
