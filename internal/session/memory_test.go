package session

import (
	"context"
	"testing"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := New("HR001")
	s.SelectTicket(12)
	s.TicketDraft = &answer.Draft{TicketID: 12, Text: "Hello"}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "HR001", got.UserID)
	assert.Equal(t, int64(12), got.SelectedTicketID)
	require.NotNil(t, got.TicketDraft)
	assert.Equal(t, "Hello", got.TicketDraft.Text)

	got.TicketDraft.Text = "changed"
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", again.TicketDraft.Text)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	s := New("ADMIN")
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	s := New("EMP001")
	require.NoError(t, store.Save(ctx, s))

	require.NoError(t, store.Delete(ctx, s.ID))

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_DerivedStateIsDropped(t *testing.T) {
	s := New("HR_ADMIN")
	s.Analysis = &domain.ImpactAnalysis{Risk: domain.RiskHigh}
	s.Notification = &domain.NotificationDraft{Subject: "x"}

	s.SetRegulation(&domain.RegulationSnapshot{Title: "New Act"})
	assert.Nil(t, s.Analysis)
	assert.Nil(t, s.Notification)

	s.Notification = &domain.NotificationDraft{Subject: "y"}
	s.SetAnalysis(&domain.ImpactAnalysis{Risk: domain.RiskLow})
	assert.Nil(t, s.Notification)

	s.SelectTicket(1)
	s.TicketDraft = &answer.Draft{TicketID: 1}
	s.SelectTicket(1)
	assert.NotNil(t, s.TicketDraft)
	s.SelectTicket(2)
	assert.Nil(t, s.TicketDraft)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := New("EMP001")
	got, ok := FromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
