package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"not null"`
	Description string
	Price       float64 `gorm:"not null"`
	ImageURL    string
	CategoryID  *uint
	Stock       int `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
