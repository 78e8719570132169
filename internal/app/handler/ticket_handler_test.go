package handler

import (
	"net/http"
	"testing"

	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCreatorCannotSetStatusOrReply(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)

	ticket, err := repo.CreateTicket(customer.ID, nil, "Help", "Something broke")
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPut, gin.H{"status": ds.TicketStatusClosed}, customer, idParam(ticket.ID))
	h.UpdateTicket(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only support staff")

	c, w = testContext(t, http.MethodPut, gin.H{"support_reply": "self-service"}, customer, idParam(ticket.ID))
	h.UpdateTicket(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Свои поля автор редактирует свободно
	c, w = testContext(t, http.MethodPut, gin.H{"title": "Help please"}, customer, idParam(ticket.ID))
	h.UpdateTicket(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestTicketReplyStaffOnly(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	support := newTestUser(t, repo, "support", role.Support)

	ticket, err := repo.CreateTicket(customer.ID, nil, "Help", "Something broke")
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, gin.H{"support_reply": "done"}, customer, idParam(ticket.ID))
	h.ReplyTicket(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodPost, gin.H{"support_reply": "We fixed it"}, support, idParam(ticket.ID))
	h.ReplyTicket(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "IN_PROGRESS")

	// Повторный ответ запрещен
	c, w = testContext(t, http.MethodPost, gin.H{"support_reply": "again"}, support, idParam(ticket.ID))
	h.ReplyTicket(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForeignTicketHidden(t *testing.T) {
	h, repo := setupHandler(t)
	author := newTestUser(t, repo, "author", role.Customer)
	other := newTestUser(t, repo, "other", role.Customer)
	support := newTestUser(t, repo, "support", role.Support)

	ticket, err := repo.CreateTicket(author.ID, nil, "Private", "my problem")
	require.NoError(t, err)

	// Чужой тикет неотличим от несуществующего
	c, w := testContext(t, http.MethodGet, nil, other, idParam(ticket.ID))
	h.GetTicket(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = testContext(t, http.MethodGet, nil, support, idParam(ticket.ID))
	h.GetTicket(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Удаление доступно только персоналу
	c, w = testContext(t, http.MethodDelete, nil, author, idParam(ticket.ID))
	h.DeleteTicket(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodDelete, nil, support, idParam(ticket.ID))
	h.DeleteTicket(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
