package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultconnect/internal/repository"
)

func newCalendarFixture(t *testing.T) (CalendarService, string, string) {
	t.Helper()

	users, repos, _ := newUserService(t)
	calendar := NewCalendarService(repos.events)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	return calendar, alice.ID, bob.ID
}

func validInput() EventInput {
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	return EventInput{
		Title:    "dentist",
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
	}
}

func TestEventCreateAndGet(t *testing.T) {
	t.Parallel()

	calendar, alice, _ := newCalendarFixture(t)
	ctx := context.Background()

	created, err := calendar.Create(ctx, alice, validInput())
	require.NoError(t, err)

	got, err := calendar.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	require.Equal(t, "dentist", got.Title)
	require.True(t, got.EndsAt.After(got.StartsAt))
}

func TestEventValidation(t *testing.T) {
	t.Parallel()

	calendar, alice, _ := newCalendarFixture(t)
	ctx := context.Background()

	missing := validInput()
	missing.Title = "  "
	_, err := calendar.Create(ctx, alice, missing)
	require.ErrorIs(t, err, ErrValidation)

	backwards := validInput()
	backwards.EndsAt = backwards.StartsAt.Add(-time.Minute)
	_, err = calendar.Create(ctx, alice, backwards)
	require.ErrorIs(t, err, ErrValidation)

	// zero-length events are allowed (end == start)
	instant := validInput()
	instant.EndsAt = instant.StartsAt
	_, err = calendar.Create(ctx, alice, instant)
	require.NoError(t, err)
}

func TestEventOwnership(t *testing.T) {
	t.Parallel()

	calendar, alice, bob := newCalendarFixture(t)
	ctx := context.Background()

	created, err := calendar.Create(ctx, alice, validInput())
	require.NoError(t, err)

	_, err = calendar.Get(ctx, bob, created.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = calendar.Update(ctx, bob, created.ID, validInput())
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, calendar.Delete(ctx, bob, created.ID), ErrForbidden)

	_, err = calendar.Get(ctx, bob, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventUpdateAndDelete(t *testing.T) {
	t.Parallel()

	calendar, alice, _ := newCalendarFixture(t)
	ctx := context.Background()

	created, err := calendar.Create(ctx, alice, validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "dentist (moved)"
	input.AllDay = true
	updated, err := calendar.Update(ctx, alice, created.ID, input)
	require.NoError(t, err)
	require.Equal(t, "dentist (moved)", updated.Title)
	require.True(t, updated.AllDay)

	require.NoError(t, calendar.Delete(ctx, alice, created.ID))
	_, err = calendar.Get(ctx, alice, created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
