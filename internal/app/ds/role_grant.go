package ds

import "backend/internal/app/role"

// Таблица динамических ролей. Пользователь может получить дополнительные
// роли без изменения основного поля Role — проверки прав объединяют обе
type RoleGrant struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"not null;index;uniqueIndex:idx_user_role"`
	Role   role.Role `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_role"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
