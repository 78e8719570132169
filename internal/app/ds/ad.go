package ds

import "time"

// Статусы объявления
const (
	AdStatusOpen     = "OPEN"
	AdStatusAssigned = "ASSIGNED"
	AdStatusDone     = "DONE"
	AdStatusCanceled = "CANCELED"
)

// Таблица объявлений (заказы услуг)
type Ad struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Category    string `gorm:"type:varchar(100);not null"`
	Status      string `gorm:"type:varchar(20);not null;default:'OPEN'"`
	CreatorID   uint   `gorm:"not null;index"`

	// Назначенный исполнитель. NULL пока объявление в статусе OPEN
	AssignedContractorID *uint `gorm:"index"`

	// Исполнитель отметил выполнение, заказчик ещё не подтвердил
	ContractorMarkedDone bool `gorm:"not null;default:false"`

	ScheduledAt *time.Time
	Location    *string `gorm:"type:varchar(255)"`
	ImageURL    *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null"`

	Creator            User  `gorm:"foreignKey:CreatorID"`
	AssignedContractor *User `gorm:"foreignKey:AssignedContractorID"`
}
