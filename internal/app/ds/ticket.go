package ds

import "time"

// Статусы тикета поддержки
const (
	TicketStatusOpen       = "OPEN"
	TicketStatusInProgress = "IN_PROGRESS"
	TicketStatusClosed     = "CLOSED"
)

// Таблица тикетов поддержки. Может ссылаться на объявление для контекста
type Ticket struct {
	ID           uint      `gorm:"primaryKey"`
	CreatorID    uint      `gorm:"not null;index"`
	AdID         *uint     `gorm:"index"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Message      string    `gorm:"type:text;not null"`
	SupportReply string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'OPEN'"`
	CreatedAt    time.Time `gorm:"not null"`

	Creator User `gorm:"foreignKey:CreatorID"`
	Ad      *Ad  `gorm:"foreignKey:AdID"`
}
