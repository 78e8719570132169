package repository

import (
	"errors"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с откликами исполнителей

// UpsertWorkRequest создает или переиспользует отклик пары (объявление, исполнитель):
// нет записи — создается PENDING; REJECTED/CANCELED — сбрасывается в PENDING
// с новым сообщением; PENDING/ACCEPTED — возвращается без изменений.
// Уникальный индекс по (ad_id, contractor_id) защищает от одновременных дублей
func (r *Repository) UpsertWorkRequest(adID, contractorID uint, message string) (*ds.WorkRequest, error) {
	var wr ds.WorkRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("ad_id = ? AND contractor_id = ?", adID, contractorID).First(&wr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wr = ds.WorkRequest{
				AdID:         adID,
				ContractorID: contractorID,
				Message:      message,
				Status:       ds.RequestStatusPending,
				CreatedAt:    time.Now(),
			}
			return tx.Create(&wr).Error
		}
		if err != nil {
			return err
		}

		if wr.Status == ds.RequestStatusRejected || wr.Status == ds.RequestStatusCanceled {
			wr.Status = ds.RequestStatusPending
			wr.Message = message
			return tx.Model(&ds.WorkRequest{}).Where("id = ?", wr.ID).
				Updates(map[string]interface{}{
					"status":  ds.RequestStatusPending,
					"message": message,
				}).Error
		}

		// уже PENDING или ACCEPTED — идемпотентно
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wr, nil
}

// GetRequestsForAd возвращает все отклики объявления (для владельца и персонала)
func (r *Repository) GetRequestsForAd(adID uint) ([]ds.WorkRequest, error) {
	var requests []ds.WorkRequest
	err := r.db.Where("ad_id = ?", adID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// GetContractorRequestsForAd возвращает только отклики данного исполнителя
func (r *Repository) GetContractorRequestsForAd(adID, contractorID uint) ([]ds.WorkRequest, error) {
	var requests []ds.WorkRequest
	err := r.db.Where("ad_id = ? AND contractor_id = ?", adID, contractorID).
		Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// GetWorkRequestByID возвращает отклик по ID
func (r *Repository) GetWorkRequestByID(id uint) (*ds.WorkRequest, error) {
	var wr ds.WorkRequest
	err := r.db.First(&wr, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Work request not found")
	}
	if err != nil {
		return nil, err
	}
	return &wr, nil
}

// GetWorkRequest возвращает отклик пары (объявление, исполнитель)
func (r *Repository) GetWorkRequest(adID, contractorID uint) (*ds.WorkRequest, error) {
	var wr ds.WorkRequest
	err := r.db.Where("ad_id = ? AND contractor_id = ?", adID, contractorID).First(&wr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("This contractor has not requested this ad")
	}
	if err != nil {
		return nil, err
	}
	return &wr, nil
}

// CancelWorkRequest отзывает отклик. Разрешено только из PENDING/ACCEPTED
func (r *Repository) CancelWorkRequest(id uint) error {
	res := r.db.Model(&ds.WorkRequest{}).
		Where("id = ? AND status IN ?", id, []string{ds.RequestStatusPending, ds.RequestStatusAccepted}).
		Update("status", ds.RequestStatusCanceled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("This request cannot be canceled now")
	}
	return nil
}
