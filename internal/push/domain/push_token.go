package domain

import "time"

// PushToken is a delivery token registered by a browser installation
type PushToken struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Token       string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	DeviceLabel string    `json:"device_label"`                  // "<platform> - <user agent>"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
