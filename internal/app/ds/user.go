package ds

import "backend/internal/app/role"

// Таблица пользователей
type User struct {
	ID       uint      `gorm:"primaryKey"`
	Login    string    `gorm:"type:varchar(50);unique;not null"`
	Password string    `gorm:"type:varchar(255);not null"`
	Email    string    `gorm:"type:varchar(100)"`
	Phone    string    `gorm:"type:varchar(20);unique"`
	FullName string    `gorm:"type:varchar(100)"`
	Role     role.Role `gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
}
