package repository

import (
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с отзывами

// CreateReview создает отзыв на выполненное объявление. Исполнитель
// денормализуется из объявления, дубликат по (объявление, автор) запрещен
func (r *Repository) CreateReview(ad *ds.Ad, authorID uint, rating int, text string) (*ds.Review, error) {
	if ad.Status != ds.AdStatusDone {
		return nil, apperr.InvalidState("You can only review after the ad is DONE")
	}
	if ad.AssignedContractorID == nil {
		return nil, apperr.InvalidState("This ad has no assigned contractor")
	}

	review := ds.Review{
		AdID:         ad.ID,
		AuthorID:     authorID,
		ContractorID: *ad.AssignedContractorID,
		Text:         text,
		Rating:       rating,
		CreatedAt:    time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&ds.Review{}).
			Where("ad_id = ? AND author_id = ?", ad.ID, authorID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.InvalidState("You already reviewed this ad")
		}
		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewsForAd возвращает отзывы объявления
func (r *Repository) GetReviewsForAd(adID uint) ([]ds.Review, error) {
	var reviews []ds.Review
	err := r.db.Where("ad_id = ?", adID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// GetContractorReviews возвращает отзывы исполнителя с фильтрами по оценке
func (r *Repository) GetContractorReviews(contractorID uint, rating, minRating int) ([]ds.Review, error) {
	q := r.db.Where("contractor_id = ?", contractorID)
	if rating > 0 {
		q = q.Where("rating = ?", rating)
	}
	if minRating > 0 {
		q = q.Where("rating >= ?", minRating)
	}

	var reviews []ds.Review
	err := q.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// GetContractorAggregates возвращает среднюю оценку и число отзывов исполнителя
func (r *Repository) GetContractorAggregates(contractorID uint) (float64, int, error) {
	type agg struct {
		Avg   *float64
		Count int64
	}
	var a agg
	err := r.db.Model(&ds.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("contractor_id = ?", contractorID).
		Scan(&a).Error
	if err != nil {
		return 0, 0, err
	}

	avg := 0.0
	if a.Avg != nil {
		avg = *a.Avg
	}
	return avg, int(a.Count), nil
}
