//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)
	seedUsers(ctx, t, pool, emp001, emp002)
	repo := NewChatRepository(pool)

	for _, m := range []*domain.ChatMessage{
		{UserID: "EMP001", Role: domain.ChatRoleUser, Content: "What is the notice period?"},
		{UserID: "EMP002", Role: domain.ChatRoleUser, Content: "Hello"},
		{UserID: "EMP001", Role: domain.ChatRoleAssistant, Content: "Two weeks."},
		{UserID: "EMP001", Role: domain.ChatRoleAssistant, Content: domain.FormatHandlerReply(1, "Approved.")},
	} {
		require.NoError(t, repo.Append(ctx, m))
		assert.NotZero(t, m.ID)
	}

	msgs, err := repo.ListByUser(ctx, "EMP001", 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "What is the notice period?", msgs[0].Content)
	assert.Equal(t, "Two weeks.", msgs[1].Content)
	assert.Contains(t, msgs[2].Content, "**HR RESPONSE (Ticket #1):**")

	rest, err := repo.ListByUser(ctx, "EMP001", msgs[0].ID, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	err = repo.Append(ctx, &domain.ChatMessage{UserID: "EMP001", Role: "system", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidChatRole)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	pool := setupPool(ctx, t)
	seedUsers(ctx, t, pool, emp001, hr001)
	runner := NewTxRunner(pool)

	var ticketID int64
	err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
		tk := &domain.Ticket{EmployeeID: "EMP001", Question: "q", Score: 3.5, AssignedTo: "HR001"}
		if err := repos.Tickets().Create(ctx, tk); err != nil {
			return err
		}
		ticketID = tk.ID
		return repos.Chat().Append(ctx, &domain.ChatMessage{UserID: "EMP001", Role: "bogus", Content: "x"})
	})
	require.ErrorIs(t, err, domain.ErrInvalidChatRole)

	_, err = NewTicketRepository(pool).GetByID(ctx, ticketID)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}
