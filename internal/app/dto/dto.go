package dto

import (
	"time"

	"backend/internal/app/role"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Объявления (Ads) ============

type AdResponse struct {
	ID                   uint       `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Category             string     `json:"category"`
	Status               string     `json:"status"`
	CreatorID            uint       `json:"creator_id"`
	AssignedContractorID *uint      `json:"assigned_contractor_id"`
	ContractorMarkedDone bool       `json:"contractor_marked_done"`
	ScheduledAt          *time.Time `json:"scheduled_at"`
	Location             *string    `json:"location"`
	ImageURL             *string    `json:"image_url,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type AdListResponse struct {
	Ads   []AdResponse `json:"ads"`
	Total int          `json:"total"`
}

type CreateAdRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,max=100"`
}

type AssignAdRequest struct {
	ContractorID uint   `json:"contractor_id"`
	ScheduledAt  string `json:"scheduled_at"`
	Location     string `json:"location"`
}

type ScheduleAdRequest struct {
	ScheduledAt string `json:"scheduled_at"`
	Location    string `json:"location"`
}

// ============ Отклики (Work Requests) ============

type WorkRequestResponse struct {
	ID           uint      `json:"id"`
	AdID         uint      `json:"ad_id"`
	ContractorID uint      `json:"contractor_id"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type WorkRequestListResponse struct {
	Requests []WorkRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}

type CreateWorkRequest struct {
	Message string `json:"message"`
}

// ============ Отзывы (Reviews) ============

type ReviewResponse struct {
	ID           uint      `json:"id"`
	AdID         uint      `json:"ad_id"`
	ContractorID uint      `json:"contractor_id"`
	AuthorID     uint      `json:"author_id"`
	Text         string    `json:"text"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

type ContractorProfileResponse struct {
	ID                uint             `json:"id"`
	Login             string           `json:"login"`
	Role              role.Role        `json:"role"`
	CompletedAdsCount int              `json:"completed_ads_count"`
	AvgRating         float64          `json:"avg_rating"`
	ReviewCount       int              `json:"review_count"`
	Reviews           []ReviewResponse `json:"reviews"`
}

type ContractorReviewsResponse struct {
	ContractorID uint             `json:"contractor_id"`
	ReviewCount  int              `json:"review_count"`
	AvgRating    float64          `json:"avg_rating"`
	Reviews      []ReviewResponse `json:"reviews"`
}

// ============ Тикеты (Tickets) ============

type TicketResponse struct {
	ID           uint      `json:"id"`
	CreatorID    uint      `json:"creator_id"`
	AdID         *uint     `json:"ad_id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	SupportReply string    `json:"support_reply"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

type CreateTicketRequest struct {
	AdID    *uint  `json:"ad_id"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

type UpdateTicketRequest struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
	Reply   *string `json:"support_reply"`
}

type ReplyTicketRequest struct {
	SupportReply string `json:"support_reply" binding:"required"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint      `json:"id"`
	Login    string    `json:"login"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	FullName string    `json:"full_name,omitempty"`
	Role     role.Role `json:"role"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type SetRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

type ProfileResponse struct {
	User UserResponse `json:"user"`
	Ads  []AdResponse `json:"ads"`
}

type ScheduleResponse struct {
	Date  string       `json:"date"`
	Count int          `json:"count"`
	Items []AdResponse `json:"items"`
}
