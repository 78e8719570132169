package handler

import (
	"net/http"

	"backend/internal/app/middleware"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	anyRole := authMiddleware.WithAuthCheck(role.Customer, role.Contractor, role.Support, role.Admin)

	// ============ Объявления (Ads) ============
	ads := api.Group("/ads")
	ads.Use(anyRole)
	{
		ads.GET("", h.GetAds)     // GET список в пределах видимости роли
		ads.GET("/:id", h.GetAd)  // GET одна запись
		ads.POST("", h.CreateAd)  // POST создание (роль проверяется в обработчике)

		// Жизненный цикл
		ads.POST("/:id/assign", h.AssignAd)                   // назначение исполнителя
		ads.POST("/:id/schedule", h.ScheduleAd)               // перенос времени работ
		ads.POST("/:id/contractor-done", h.ContractorDone)    // отметка исполнителя
		ads.POST("/:id/confirm-done", h.ConfirmDone)          // подтверждение заказчика
		ads.POST("/:id/cancel", h.CancelAd)                   // отмена
		ads.POST("/:id/photo", h.UploadAdPhoto)               // фотография (MinIO)

		// Отклики при объявлении
		ads.GET("/:id/requests", h.GetAdRequests)
		ads.POST("/:id/requests", h.CreateAdRequest)

		// Отзывы при объявлении
		ads.POST("/:id/review", h.SubmitReview)
		ads.GET("/:id/reviews", h.GetAdReviews)
	}

	// Отзыв собственного отклика по его ID
	api.POST("/requests/:id/cancel", anyRole, h.CancelAdRequest)

	// ============ Исполнители (Contractors) ============
	contractors := api.Group("/contractors")
	contractors.Use(anyRole)
	{
		contractors.GET("", h.ListContractors)
		contractors.GET("/:id", h.GetContractorProfile)
		contractors.GET("/:id/reviews", h.GetContractorReviews)
	}

	// Расписание исполнителя на день
	api.GET("/my/schedule", anyRole, h.MySchedule)

	// ============ Тикеты поддержки (Tickets) ============
	tickets := api.Group("/tickets")
	tickets.Use(anyRole)
	{
		tickets.POST("", h.CreateTicket)
		tickets.GET("", h.GetTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.PUT("/:id", h.UpdateTicket)
		tickets.POST("/:id/reply", h.ReplyTicket)
		tickets.DELETE("/:id", h.DeleteTicket)
	}

	// ============ Пользователи и роли ============
	api.PUT("/users/:id/roles", authMiddleware.WithAuthCheck(role.Admin), h.SetUserRoles)

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		// Защищенные эндпоинты
		auth.POST("/logout", anyRole, h.Logout)
		auth.GET("/profile", anyRole, h.GetProfile)
		auth.PUT("/profile", anyRole, h.UpdateProfile)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверка доступности сервиса
// @Summary Проверка доступности
// @Tags Service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
