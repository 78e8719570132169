package role

// Role определяет роль пользователя в системе
type Role string

const (
	Customer   Role = "CUSTOMER"   // заказчик, размещает объявления
	Contractor Role = "CONTRACTOR" // исполнитель, откликается на объявления
	Support    Role = "SUPPORT"    // сотрудник поддержки
	Admin      Role = "ADMIN"      // администратор
)

// All возвращает все допустимые роли
func All() []Role {
	return []Role{Customer, Contractor, Support, Admin}
}

// IsValid проверяет что роль входит в список допустимых
func (r Role) IsValid() bool {
	switch r {
	case Customer, Contractor, Support, Admin:
		return true
	}
	return false
}

// IsStaff возвращает true для персонала (поддержка и администраторы)
func (r Role) IsStaff() bool {
	return r == Support || r == Admin
}
