package handler

import (
	"fmt"
	"net/http"

	"backend/internal/app/apperr"
	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/role"
	"backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler содержит обработчики REST API
type APIHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAPIHandler(r *repository.Repository, minioClient *storage.MinIOClient, redisClient *redis.Client, cfg *config.Config) *APIHandler {
	return &APIHandler{
		Repository:  r,
		MinIOClient: minioClient,
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// Получение текущего пользователя из контекста (установлен middleware)
func (h *APIHandler) getUserFromContext(c *gin.Context) (uint, role.Role, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, "", fmt.Errorf("user not authenticated")
	}

	userRole, _ := c.Get("userRole")
	r, _ := userRole.(role.Role)

	id, ok := userID.(uint)
	if !ok {
		logrus.Errorf("getUserFromContext: invalid userID type: %T", userID)
		return 0, r, fmt.Errorf("invalid user ID")
	}

	return id, r, nil
}

// hasAnyRole проверяет роли через единую точку (статическое поле + гранты)
func (h *APIHandler) hasAnyRole(userID uint, userRole role.Role, candidates ...role.Role) bool {
	ok, err := h.Repository.UserHasRole(userID, userRole, candidates...)
	if err != nil {
		logrus.Error("hasAnyRole: ", err)
		return false
	}
	return ok
}

// isStaff проверяет принадлежность к персоналу (поддержка/администратор)
func (h *APIHandler) isStaff(userID uint, userRole role.Role) bool {
	return h.hasAnyRole(userID, userRole, role.Support, role.Admin)
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:      "error",
		Description: message,
	})
}

// appError маппит бизнес-ошибку в HTTP статус в одном месте
func (h *APIHandler) appError(c *gin.Context, err error) {
	logrus.Error(err.Error())

	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindInvalidState, apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	h.errorResponse(c, status, message)
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// ============ Конвертация моделей в DTO ============

func adToDTO(ad *ds.Ad) dto.AdResponse {
	return dto.AdResponse{
		ID:                   ad.ID,
		Title:                ad.Title,
		Description:          ad.Description,
		Category:             ad.Category,
		Status:               ad.Status,
		CreatorID:            ad.CreatorID,
		AssignedContractorID: ad.AssignedContractorID,
		ContractorMarkedDone: ad.ContractorMarkedDone,
		ScheduledAt:          ad.ScheduledAt,
		Location:             ad.Location,
		ImageURL:             ad.ImageURL,
		CreatedAt:            ad.CreatedAt,
	}
}

func adsToDTO(ads []ds.Ad) []dto.AdResponse {
	out := make([]dto.AdResponse, len(ads))
	for i := range ads {
		out[i] = adToDTO(&ads[i])
	}
	return out
}

func workRequestToDTO(wr *ds.WorkRequest) dto.WorkRequestResponse {
	return dto.WorkRequestResponse{
		ID:           wr.ID,
		AdID:         wr.AdID,
		ContractorID: wr.ContractorID,
		Message:      wr.Message,
		Status:       wr.Status,
		CreatedAt:    wr.CreatedAt,
	}
}

func reviewsToDTO(reviews []ds.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, len(reviews))
	for i, rv := range reviews {
		out[i] = dto.ReviewResponse{
			ID:           rv.ID,
			AdID:         rv.AdID,
			ContractorID: rv.ContractorID,
			AuthorID:     rv.AuthorID,
			Text:         rv.Text,
			Rating:       rv.Rating,
			CreatedAt:    rv.CreatedAt,
		}
	}
	return out
}

func ticketToDTO(t *ds.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           t.ID,
		CreatorID:    t.CreatorID,
		AdID:         t.AdID,
		Title:        t.Title,
		Message:      t.Message,
		SupportReply: t.SupportReply,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
	}
}

func userToDTO(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Login:    u.Login,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
