package repository

import (
	"errors"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для тикетов поддержки

func (r *Repository) CreateTicket(creatorID uint, adID *uint, title, message string) (*ds.Ticket, error) {
	ticket := ds.Ticket{
		CreatorID: creatorID,
		AdID:      adID,
		Title:     title,
		Message:   message,
		Status:    ds.TicketStatusOpen,
		CreatedAt: time.Now(),
	}

	if err := r.db.Create(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *Repository) GetTicketByID(id uint) (*ds.Ticket, error) {
	var ticket ds.Ticket
	err := r.db.First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Ticket not found")
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetTickets возвращает тикеты: персонал видит все, остальные только свои
func (r *Repository) GetTickets(userID uint, staff bool) ([]ds.Ticket, error) {
	q := r.db.Order("created_at DESC")
	if !staff {
		q = q.Where("creator_id = ?", userID)
	}

	var tickets []ds.Ticket
	err := q.Find(&tickets).Error
	return tickets, err
}

func (r *Repository) UpdateTicket(id uint, title, message *string) error {
	updates := map[string]interface{}{}
	if title != nil {
		updates["title"] = *title
	}
	if message != nil {
		updates["message"] = *message
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&ds.Ticket{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateTicketStatus меняет статус тикета (только персонал)
func (r *Repository) UpdateTicketStatus(id uint, status string) error {
	return r.db.Model(&ds.Ticket{}).Where("id = ?", id).Update("status", status).Error
}

func (r *Repository) DeleteTicket(id uint) error {
	return r.db.Delete(&ds.Ticket{}, id).Error
}

// ReplyTicket записывает единственный ответ поддержки. Повторный ответ
// запрещен; первый ответ переводит OPEN -> IN_PROGRESS
func (r *Repository) ReplyTicket(id uint, reply string) (*ds.Ticket, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ticket ds.Ticket
		err := tx.First(&ticket, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Ticket not found")
		}
		if err != nil {
			return err
		}

		if ticket.SupportReply != "" {
			return apperr.InvalidState("This ticket already has a reply")
		}

		updates := map[string]interface{}{"support_reply": reply}
		if ticket.Status == ds.TicketStatusOpen {
			updates["status"] = ds.TicketStatusInProgress
		}
		return tx.Model(&ds.Ticket{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetTicketByID(id)
}
