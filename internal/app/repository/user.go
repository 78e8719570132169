package repository

import (
	"errors"
	"sort"
	"strings"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"gorm.io/gorm"
)

// Методы для пользователей и динамических ролей

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByIdentifier(identifier string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ? OR email = ? OR phone = ?", identifier, identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(login, password, email, phone, fullName string, userRole role.Role) (*ds.User, error) {
	user := ds.User{
		Login:    login,
		Password: password,
		Email:    email,
		Phone:    phone,
		FullName: fullName,
		Role:     userRole,
	}

	if err := r.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateUser(userID uint, fullName, password *string) error {
	updates := map[string]interface{}{}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if password != nil {
		updates["password"] = *password
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.User{}).Where("id = ?", userID).Updates(updates).Error
}

// GetContractorByID возвращает пользователя с ролью CONTRACTOR
func (r *Repository) GetContractorByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("id = ? AND role = ?", id, role.Contractor).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Contractor not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserHasRole проверяет роль через единую точку: статическое поле
// объединяется с динамическими грантами. Обработчики не ветвятся по
// сырому полю роли напрямую
func (r *Repository) UserHasRole(userID uint, userRole role.Role, candidates ...role.Role) (bool, error) {
	for _, c := range candidates {
		if userRole == c {
			return true, nil
		}
	}

	var count int64
	err := r.db.Model(&ds.RoleGrant{}).
		Where("user_id = ? AND role IN ?", userID, candidates).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetUserRoles заменяет набор динамических ролей пользователя и
// синхронизирует основное поле с первой ролью списка
func (r *Repository) SetUserRoles(userID uint, roles []role.Role) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user ds.User
		err := tx.First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&ds.RoleGrant{}).Error; err != nil {
			return err
		}

		for _, ro := range roles {
			grant := ds.RoleGrant{UserID: userID, Role: ro}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}

		return tx.Model(&ds.User{}).Where("id = ?", userID).Update("role", roles[0]).Error
	})
}

// ContractorInfo — карточка исполнителя для листинга с агрегатами
type ContractorInfo struct {
	ID                uint    `json:"id"`
	Login             string  `json:"login"`
	AvgRating         float64 `json:"avg_rating"`
	ReviewCount       int     `json:"review_count"`
	CompletedAdsCount int     `json:"completed_ads_count"`
}

// ListContractors возвращает исполнителей с агрегатами отзывов.
// Фильтрация и сортировка поверх выборки; сортировка по allow-list полей
func (r *Repository) ListContractors(minAvgRating float64, minReviewCount int, ordering string) ([]ContractorInfo, error) {
	var contractors []ContractorInfo
	err := r.db.Raw(`
		SELECT u.id, u.login,
			COALESCE((SELECT AVG(rating) FROM reviews rv WHERE rv.contractor_id = u.id), 0) AS avg_rating,
			(SELECT COUNT(*) FROM reviews rv WHERE rv.contractor_id = u.id) AS review_count,
			(SELECT COUNT(*) FROM ads a WHERE a.assigned_contractor_id = u.id AND a.status = ?) AS completed_ads_count
		FROM users u
		WHERE u.role = ?`, ds.AdStatusDone, role.Contractor).
		Scan(&contractors).Error
	if err != nil {
		return nil, err
	}

	filtered := contractors[:0]
	for _, c := range contractors {
		if c.AvgRating < minAvgRating || c.ReviewCount < minReviewCount {
			continue
		}
		filtered = append(filtered, c)
	}

	sortContractors(filtered, ordering)
	return filtered, nil
}

// sortContractors упорядочивает листинг по списку полей вида "-avg_rating,id".
// Неизвестные поля игнорируются; по умолчанию -avg_rating,-review_count
func sortContractors(contractors []ContractorInfo, ordering string) {
	type key struct {
		field string
		desc  bool
	}

	allowed := map[string]bool{
		"avg_rating": true, "review_count": true, "completed_ads_count": true,
		"id": true, "login": true,
	}

	var keys []key
	for _, part := range strings.Split(ordering, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := key{field: part}
		if strings.HasPrefix(part, "-") {
			k = key{field: part[1:], desc: true}
		}
		if allowed[k.field] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = []key{{"avg_rating", true}, {"review_count", true}}
	}

	sort.SliceStable(contractors, func(i, j int) bool {
		for _, k := range keys {
			var less, greater bool
			switch k.field {
			case "avg_rating":
				less, greater = contractors[i].AvgRating < contractors[j].AvgRating, contractors[i].AvgRating > contractors[j].AvgRating
			case "review_count":
				less, greater = contractors[i].ReviewCount < contractors[j].ReviewCount, contractors[i].ReviewCount > contractors[j].ReviewCount
			case "completed_ads_count":
				less, greater = contractors[i].CompletedAdsCount < contractors[j].CompletedAdsCount, contractors[i].CompletedAdsCount > contractors[j].CompletedAdsCount
			case "id":
				less, greater = contractors[i].ID < contractors[j].ID, contractors[i].ID > contractors[j].ID
			case "login":
				less, greater = contractors[i].Login < contractors[j].Login, contractors[i].Login > contractors[j].Login
			}
			if less {
				return !k.desc
			}
			if greater {
				return k.desc
			}
		}
		return false
	})
}
