package ds

import "time"

// Статусы отклика
const (
	RequestStatusPending  = "PENDING"
	RequestStatusAccepted = "ACCEPTED"
	RequestStatusRejected = "REJECTED"
	RequestStatusCanceled = "CANCELED"
)

// Таблица откликов исполнителей на объявления.
// Не более одной записи на пару (объявление, исполнитель): повторный отклик
// после отказа переиспользует ту же строку
type WorkRequest struct {
	ID           uint      `gorm:"primaryKey"`
	AdID         uint      `gorm:"not null;index;uniqueIndex:idx_ad_contractor"`
	ContractorID uint      `gorm:"not null;index;uniqueIndex:idx_ad_contractor"`
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt    time.Time `gorm:"not null"`

	Ad         Ad   `gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE"`
	Contractor User `gorm:"foreignKey:ContractorID"`
}
