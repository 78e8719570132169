package repository

import (
	"testing"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketSingleReply(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)

	ticket, err := repo.CreateTicket(customer.ID, nil, "Problem", "Cannot login")
	require.NoError(t, err)
	assert.Equal(t, ds.TicketStatusOpen, ticket.Status)

	// Первый ответ переводит тикет в работу
	replied, err := repo.ReplyTicket(ticket.ID, "We are on it")
	require.NoError(t, err)
	assert.Equal(t, "We are on it", replied.SupportReply)
	assert.Equal(t, ds.TicketStatusInProgress, replied.Status)

	// Второй ответ запрещен
	_, err = repo.ReplyTicket(ticket.ID, "another answer")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.EqualError(t, err, "This ticket already has a reply")
}

func TestTicketScoping(t *testing.T) {
	repo := setupRepo(t)
	first := createTestUser(t, repo, "customer1", role.Customer)
	second := createTestUser(t, repo, "customer2", role.Customer)
	support := createTestUser(t, repo, "support1", role.Support)

	_, err := repo.CreateTicket(first.ID, nil, "A", "first ticket")
	require.NoError(t, err)
	_, err = repo.CreateTicket(second.ID, nil, "B", "second ticket")
	require.NoError(t, err)

	mine, err := repo.GetTickets(first.ID, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].CreatorID)

	all, err := repo.GetTickets(support.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTicketUpdateAndDelete(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)

	ticket, err := repo.CreateTicket(customer.ID, nil, "Old title", "text")
	require.NoError(t, err)

	title := "New title"
	require.NoError(t, repo.UpdateTicket(ticket.ID, &title, nil))

	updated, err := repo.GetTicketByID(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "text", updated.Message)

	require.NoError(t, repo.UpdateTicketStatus(ticket.ID, ds.TicketStatusClosed))
	require.NoError(t, repo.DeleteTicket(ticket.ID))

	_, err = repo.GetTicketByID(ticket.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
