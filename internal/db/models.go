package db

import "time"

// Page is a stored snapshot of one fetched URL's heading counts and links.
// Rows are written once and never updated.
type Page struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"not null;type:text" json:"url"`
	H1Count   int       `gorm:"not null;default:0;index" json:"h1_count"`
	H2Count   int       `gorm:"not null;default:0;index" json:"h2_count"`
	H3Count   int       `gorm:"not null;default:0;index" json:"h3_count"`
	Links     []string  `gorm:"serializer:json;type:mediumtext" json:"links"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
