package ds

import "time"

// Таблица отзывов. Один отзыв на пару (объявление, автор).
// Исполнитель денормализуется из объявления в момент создания
type Review struct {
	ID           uint      `gorm:"primaryKey"`
	AdID         uint      `gorm:"not null;index;uniqueIndex:idx_ad_author"`
	AuthorID     uint      `gorm:"not null;uniqueIndex:idx_ad_author"`
	ContractorID uint      `gorm:"not null;index"`
	Text         string    `gorm:"type:text"`
	Rating       int       `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`

	Ad         Ad   `gorm:"foreignKey:AdID"`
	Author     User `gorm:"foreignKey:AuthorID"`
	Contractor User `gorm:"foreignKey:ContractorID"`
}
