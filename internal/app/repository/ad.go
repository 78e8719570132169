package repository

import (
	"errors"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"gorm.io/gorm"
)

// Методы для работы с объявлениями

// CreateAd создает объявление в статусе OPEN
func (r *Repository) CreateAd(creatorID uint, title, description, category string) (*ds.Ad, error) {
	ad := ds.Ad{
		Title:       title,
		Description: description,
		Category:    category,
		Status:      ds.AdStatusOpen,
		CreatorID:   creatorID,
		CreatedAt:   time.Now(),
	}

	if err := r.db.Create(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// adScopeForUser ограничивает выборку объявлений видимостью роли:
// заказчик видит свои + OPEN, исполнитель видит OPEN + назначенные ему,
// персонал видит все
func (r *Repository) adScopeForUser(userID uint, userRole role.Role) *gorm.DB {
	switch userRole {
	case role.Customer:
		return r.db.Where("creator_id = ? OR status = ?", userID, ds.AdStatusOpen)
	case role.Contractor:
		return r.db.Where("status = ? OR assigned_contractor_id = ?", ds.AdStatusOpen, userID)
	default:
		return r.db
	}
}

// GetAdForUser возвращает объявление в пределах видимости роли.
// Объявление вне видимой выборки неотличимо от несуществующего
func (r *Repository) GetAdForUser(adID, userID uint, userRole role.Role) (*ds.Ad, error) {
	var ad ds.Ad
	err := r.adScopeForUser(userID, userRole).Where("ads.id = ?", adID).First(&ad).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Ad not found")
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// GetAdsForUser возвращает список объявлений в пределах видимости роли
func (r *Repository) GetAdsForUser(userID uint, userRole role.Role, status, category string) ([]ds.Ad, error) {
	q := r.adScopeForUser(userID, userRole)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var ads []ds.Ad
	if err := q.Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// AssignAd назначает исполнителя на объявление. Все три шага выполняются
// одной транзакцией: выбранный отклик принимается, остальные PENDING
// отклоняются, объявление переходит OPEN -> ASSIGNED. Гонка двух
// одновременных назначений разрешается условным UPDATE по статусу:
// проигравшая транзакция не затрагивает ни одной строки
func (r *Repository) AssignAd(adID, contractorID uint, scheduledAt time.Time, location string) (*ds.Ad, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ds.Ad{}).
			Where("id = ? AND status = ?", adID, ds.AdStatusOpen).
			Updates(map[string]interface{}{
				"status":                 ds.AdStatusAssigned,
				"assigned_contractor_id": contractorID,
				"scheduled_at":           scheduledAt,
				"location":               location,
				"contractor_marked_done": false,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("Only OPEN ads can be assigned")
		}

		err := tx.Model(&ds.WorkRequest{}).
			Where("ad_id = ? AND contractor_id = ?", adID, contractorID).
			Update("status", ds.RequestStatusAccepted).Error
		if err != nil {
			return err
		}

		// Остальные PENDING отклики отклоняются одним батчем.
		// ACCEPTED/CANCELED соседей не трогаем
		return tx.Model(&ds.WorkRequest{}).
			Where("ad_id = ? AND contractor_id <> ? AND status = ?", adID, contractorID, ds.RequestStatusPending).
			Update("status", ds.RequestStatusRejected).Error
	})
	if err != nil {
		return nil, err
	}

	return r.getAdByID(adID)
}

// HasScheduleConflict проверяет, есть ли у исполнителя другое ASSIGNED
// объявление с точно таким же временем (сравнение по равенству, не по
// пересечению интервалов)
func (r *Repository) HasScheduleConflict(contractorID, excludeAdID uint, scheduledAt time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&ds.Ad{}).
		Where("assigned_contractor_id = ? AND status = ? AND scheduled_at = ? AND id <> ?",
			contractorID, ds.AdStatusAssigned, scheduledAt, excludeAdID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RescheduleAd переносит время и место работы для назначенного исполнителя
func (r *Repository) RescheduleAd(adID, contractorID uint, scheduledAt time.Time, location string) (*ds.Ad, error) {
	conflict, err := r.HasScheduleConflict(contractorID, adID, scheduledAt)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperr.Validation("Time conflict: you already have a job at this time")
	}

	res := r.db.Model(&ds.Ad{}).
		Where("id = ? AND status = ? AND assigned_contractor_id = ?", adID, ds.AdStatusAssigned, contractorID).
		Updates(map[string]interface{}{
			"scheduled_at": scheduledAt,
			"location":     location,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.InvalidState("Only ASSIGNED ads can be scheduled")
	}

	return r.getAdByID(adID)
}

// MarkContractorDone ставит отметку исполнителя о выполнении, статус не меняется
func (r *Repository) MarkContractorDone(adID, contractorID uint) error {
	res := r.db.Model(&ds.Ad{}).
		Where("id = ? AND status = ? AND assigned_contractor_id = ?", adID, ds.AdStatusAssigned, contractorID).
		Update("contractor_marked_done", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("Only ASSIGNED ads can be marked done")
	}
	return nil
}

// ConfirmAdDone подтверждает выполнение: вторая фаза двухфазного завершения.
// Требует отметки исполнителя, переводит ASSIGNED -> DONE
func (r *Repository) ConfirmAdDone(adID uint) error {
	var ad ds.Ad
	err := r.db.First(&ad, adID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Ad not found")
	}
	if err != nil {
		return err
	}

	if ad.Status != ds.AdStatusAssigned {
		return apperr.InvalidState("Only ASSIGNED ads can be confirmed done")
	}
	if !ad.ContractorMarkedDone {
		return apperr.InvalidState("Contractor has not marked done yet")
	}

	res := r.db.Model(&ds.Ad{}).
		Where("id = ? AND status = ? AND contractor_marked_done = ?", adID, ds.AdStatusAssigned, true).
		Update("status", ds.AdStatusDone)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("Only ASSIGNED ads can be confirmed done")
	}
	return nil
}

// CancelAd отменяет объявление. DONE объявления неизменяемы
func (r *Repository) CancelAd(adID uint) error {
	res := r.db.Model(&ds.Ad{}).
		Where("id = ? AND status <> ?", adID, ds.AdStatusDone).
		Update("status", ds.AdStatusCanceled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("Cannot cancel a DONE ad")
	}
	return nil
}

// UpdateAdImage сохраняет имя файла фотографии объявления
func (r *Repository) UpdateAdImage(adID uint, imageURL string) error {
	return r.db.Model(&ds.Ad{}).Where("id = ?", adID).Update("image_url", imageURL).Error
}

// GetContractorSchedule возвращает ASSIGNED объявления исполнителя за сутки
func (r *Repository) GetContractorSchedule(contractorID uint, day time.Time) ([]ds.Ad, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	var ads []ds.Ad
	err := r.db.
		Where("assigned_contractor_id = ? AND status = ? AND scheduled_at >= ? AND scheduled_at < ?",
			contractorID, ds.AdStatusAssigned, from, to).
		Order("scheduled_at").
		Find(&ads).Error
	if err != nil {
		return nil, err
	}
	return ads, nil
}

// CountCompletedAds возвращает число выполненных объявлений исполнителя
func (r *Repository) CountCompletedAds(contractorID uint) (int, error) {
	var count int64
	err := r.db.Model(&ds.Ad{}).
		Where("assigned_contractor_id = ? AND status = ?", contractorID, ds.AdStatusDone).
		Count(&count).Error
	return int(count), err
}

// GetAdsByCreator возвращает объявления заказчика
func (r *Repository) GetAdsByCreator(creatorID uint) ([]ds.Ad, error) {
	var ads []ds.Ad
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&ads).Error
	return ads, err
}

// GetDoneAdsByContractor возвращает выполненные объявления исполнителя
func (r *Repository) GetDoneAdsByContractor(contractorID uint) ([]ds.Ad, error) {
	var ads []ds.Ad
	err := r.db.
		Where("assigned_contractor_id = ? AND status = ?", contractorID, ds.AdStatusDone).
		Order("created_at DESC").
		Find(&ads).Error
	return ads, err
}

func (r *Repository) getAdByID(adID uint) (*ds.Ad, error) {
	var ad ds.Ad
	err := r.db.First(&ad, adID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Ad not found")
	}
	if err != nil {
		return nil, err
	}
	return &ad, nil
}
