package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Жизненный цикл объявления: OPEN -> ASSIGNED -> DONE, с боковым выходом
// в CANCELED. Возврата в OPEN нет

// canManageAd: владелец объявления либо персонал
func (h *APIHandler) canManageAd(userID uint, userRole role.Role, ad *ds.Ad) bool {
	if ad.CreatorID == userID {
		return true
	}
	return h.isStaff(userID, userRole)
}

// loadAd достает объявление в пределах видимости текущей роли.
// Объявление вне видимости отдается как 404, а не 403
func (h *APIHandler) loadAd(c *gin.Context) (*ds.Ad, uint, role.Role, bool) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return nil, 0, "", false
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.appError(c, apperr.Validation("Invalid ad ID"))
		return nil, 0, "", false
	}

	ad, err := h.Repository.GetAdForUser(uint(id), userID, userRole)
	if err != nil {
		h.appError(c, err)
		return nil, 0, "", false
	}
	return ad, userID, userRole, true
}

// CreateAd создает объявление
// @Summary Создание объявления
// @Description Создает объявление в статусе OPEN (только для заказчиков)
// @Tags Ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAdRequest true "Данные объявления"
// @Success 201 {object} dto.AdResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads [post]
func (h *APIHandler) CreateAd(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Customer) {
		h.appError(c, apperr.Forbidden("Only customers can create ads"))
		return
	}

	var req dto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ad, err := h.Repository.CreateAd(userID, req.Title, req.Description, req.Category)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adToDTO(ad))
}

// GetAds возвращает список объявлений
// @Summary Список объявлений
// @Description Возвращает объявления в пределах видимости роли с фильтрами
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param category query string false "Фильтр по категории"
// @Success 200 {object} dto.AdListResponse
// @Router /api/ads [get]
func (h *APIHandler) GetAds(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	ads, err := h.Repository.GetAdsForUser(userID, userRole, c.Query("status"), c.Query("category"))
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdListResponse{Ads: adsToDTO(ads), Total: len(ads)})
}

// GetAd возвращает одно объявление
// @Summary Получение объявления
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {object} dto.AdResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ads/{id} [get]
func (h *APIHandler) GetAd(c *gin.Context) {
	ad, _, _, ok := h.loadAd(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, adToDTO(ad))
}

// AssignAd назначает исполнителя
// @Summary Назначение исполнителя
// @Description Владелец или персонал выбирает отклик: выбранный принимается, остальные PENDING отклоняются, объявление переходит в ASSIGNED
// @Tags Ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Param request body dto.AssignAdRequest true "Исполнитель, время и место"
// @Success 200 {object} dto.AdResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ads/{id}/assign [post]
func (h *APIHandler) AssignAd(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.canManageAd(userID, userRole, ad) {
		h.appError(c, apperr.Forbidden("Only owner/support/admin can assign"))
		return
	}

	if ad.Status != ds.AdStatusOpen {
		h.appError(c, apperr.InvalidState("Only OPEN ads can be assigned"))
		return
	}

	var req dto.AssignAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.ContractorID == 0 {
		h.appError(c, apperr.Validation("contractor_id: This field is required"))
		return
	}
	if req.ScheduledAt == "" {
		h.appError(c, apperr.Validation("scheduled_at: This field is required"))
		return
	}
	if req.Location == "" {
		h.appError(c, apperr.Validation("location: This field is required"))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		h.appError(c, apperr.Validation("scheduled_at: Invalid datetime. Use ISO 8601"))
		return
	}

	contractor, err := h.Repository.GetContractorByID(req.ContractorID)
	if err != nil {
		h.appError(c, err)
		return
	}

	// Исполнитель обязан иметь отклик на это объявление
	if _, err := h.Repository.GetWorkRequest(ad.ID, contractor.ID); err != nil {
		h.appError(c, err)
		return
	}

	updated, err := h.Repository.AssignAd(ad.ID, contractor.ID, scheduledAt, req.Location)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, adToDTO(updated))
}

// ScheduleAd переносит время и место работы
// @Summary Перенос времени работы
// @Description Назначенный исполнитель меняет время и место. Конфликт по точному совпадению времени с другим ASSIGNED объявлением отклоняется
// @Tags Ads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Param request body dto.ScheduleAdRequest true "Новое время и место"
// @Success 200 {object} dto.AdResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/schedule [post]
func (h *APIHandler) ScheduleAd(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Contractor) {
		h.appError(c, apperr.Forbidden("Only contractors can set schedule"))
		return
	}
	if ad.AssignedContractorID == nil || *ad.AssignedContractorID != userID {
		h.appError(c, apperr.Forbidden("Only assigned contractor can schedule this ad"))
		return
	}
	if ad.Status != ds.AdStatusAssigned {
		h.appError(c, apperr.InvalidState("Only ASSIGNED ads can be scheduled"))
		return
	}

	var req dto.ScheduleAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.ScheduledAt == "" || req.Location == "" {
		h.appError(c, apperr.Validation("scheduled_at and location are required"))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		h.appError(c, apperr.Validation("scheduled_at: Use ISO format like 2025-12-30T10:00:00Z"))
		return
	}

	updated, err := h.Repository.RescheduleAd(ad.ID, userID, scheduledAt, req.Location)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, adToDTO(updated))
}

// ContractorDone отметка исполнителя о выполнении
// @Summary Отметка исполнителя о выполнении
// @Description Первая фаза завершения: исполнитель отмечает работу выполненной, статус не меняется до подтверждения заказчика
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ads/{id}/contractor-done [post]
func (h *APIHandler) ContractorDone(c *gin.Context) {
	// Объявление, назначенное другому исполнителю, не попадает в видимую
	// выборку контрактора и отдается как 404. Видимое, но чужое — 403
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Contractor) {
		h.appError(c, apperr.Forbidden("Only contractors can do this"))
		return
	}
	if ad.AssignedContractorID == nil || *ad.AssignedContractorID != userID {
		h.appError(c, apperr.Forbidden("You are not assigned to this ad"))
		return
	}

	if err := h.Repository.MarkContractorDone(ad.ID, userID); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Marked done by contractor", nil)
}

// ConfirmDone подтверждение выполнения заказчиком
// @Summary Подтверждение выполнения
// @Description Вторая фаза завершения: владелец или персонал подтверждает отмеченную исполнителем работу, объявление переходит в DONE
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/confirm-done [post]
func (h *APIHandler) ConfirmDone(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.canManageAd(userID, userRole, ad) {
		h.appError(c, apperr.Forbidden("Only owner/support/admin can confirm done"))
		return
	}

	if err := h.Repository.ConfirmAdDone(ad.ID); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Ad confirmed done", nil)
}

// CancelAd отменяет объявление
// @Summary Отмена объявления
// @Description Владелец или персонал отменяет объявление. DONE объявления неизменяемы
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/cancel [post]
func (h *APIHandler) CancelAd(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if ad.Status == ds.AdStatusDone {
		h.appError(c, apperr.InvalidState("Cannot cancel a DONE ad"))
		return
	}

	if !h.canManageAd(userID, userRole, ad) {
		h.appError(c, apperr.Forbidden("You cannot cancel this ad"))
		return
	}

	if err := h.Repository.CancelAd(ad.ID); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Ad canceled", nil)
}

// UploadAdPhoto загружает фотографию объявления
// @Summary Загрузка фотографии объявления
// @Description Загружает фотографию в MinIO (владелец или персонал). Старая фотография удаляется
// @Tags Ads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/photo [post]
func (h *APIHandler) UploadAdPhoto(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.canManageAd(userID, userRole, ad) {
		h.appError(c, apperr.Forbidden("Only owner/support/admin can upload a photo"))
		return
	}

	if ad.Status == ds.AdStatusDone || ad.Status == ds.AdStatusCanceled {
		h.appError(c, apperr.InvalidState("Cannot change a closed ad"))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		h.appError(c, apperr.Validation("image file is required"))
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.appError(c, err)
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.appError(c, err)
		return
	}

	// Удаляем старую фотографию из MinIO (если есть)
	if ad.ImageURL != nil && *ad.ImageURL != "" && h.MinIOClient != nil {
		if err := h.MinIOClient.DeleteFile(*ad.ImageURL); err != nil {
			logrus.Warnf("Failed to delete old photo %s: %v", *ad.ImageURL, err)
		}
	}

	var imageURL string
	if h.MinIOClient != nil {
		imageURL, err = h.MinIOClient.UploadFile(fileData, file.Filename)
		if err != nil {
			logrus.Error("Error uploading to MinIO: ", err)
			h.appError(c, err)
			return
		}
	} else {
		// Fallback если MinIO не настроен
		imageURL = "uploaded_" + file.Filename
	}

	if err := h.Repository.UpdateAdImage(ad.ID, imageURL); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Photo uploaded", gin.H{"image_url": imageURL})
}

// MySchedule возвращает расписание исполнителя на день
// @Summary Расписание исполнителя
// @Description Возвращает ASSIGNED объявления исполнителя на указанную дату
// @Tags Ads
// @Produce json
// @Security BearerAuth
// @Param date query string true "Дата в формате YYYY-MM-DD"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/my/schedule [get]
func (h *APIHandler) MySchedule(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Contractor) {
		h.appError(c, apperr.Forbidden("Only contractors have a schedule"))
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		h.appError(c, apperr.Validation("date: required, format YYYY-MM-DD"))
		return
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		h.appError(c, apperr.Validation("date: invalid date format YYYY-MM-DD"))
		return
	}

	ads, err := h.Repository.GetContractorSchedule(userID, day)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ScheduleResponse{
		Date:  dateStr,
		Count: len(ads),
		Items: adsToDTO(ads),
	})
}
