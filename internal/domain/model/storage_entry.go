package model

import "time"

// キーバリュー保存（カートのJSONなど）
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (e *StorageEntry) TableName() string {
	return "storage_entries"
}
