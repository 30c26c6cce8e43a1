package localstore

import (
	"time"
)

// Entry is one stored key in the SQL backend
type Entry struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Key   string `json:"key" gorm:"column:entry_key;unique;not null;size:255"`
	Value string `json:"value" gorm:"type:mediumtext"`
}

// TableName sets the table name for GORM
func (Entry) TableName() string {
	return "tubescript_entries"
}
