package models

import "time"

// KVEntry is one key of the local key-value store.
type KVEntry struct {
	StorageKey string `gorm:"primaryKey;column:storage_key;size:191"`
	Value      string `gorm:"type:text;not null"`
	UpdatedAt  time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
