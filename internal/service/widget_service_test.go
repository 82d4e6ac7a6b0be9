package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"vaultconnect/internal/domain"
	"vaultconnect/internal/repository"
)

func newTwoUsers(t *testing.T) (UserService, WidgetService, string, string) {
	t.Helper()

	users, repos, _ := newUserService(t)
	widgets := NewWidgetService(repos.widgets)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	return users, widgets, alice.ID, bob.ID
}

func TestWidgetRoundTrip(t *testing.T) {
	t.Parallel()

	_, widgets, alice, _ := newTwoUsers(t)
	ctx := context.Background()

	created, err := widgets.Create(ctx, alice, domain.WidgetTypeWeather, json.RawMessage(`{"city":"Oslo"}`))
	require.NoError(t, err)

	got, err := widgets.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.WidgetTypeWeather, got.Type)
	require.JSONEq(t, `{"city":"Oslo"}`, string(got.Settings))
}

func TestWidgetCreateValidation(t *testing.T) {
	t.Parallel()

	_, widgets, alice, _ := newTwoUsers(t)
	ctx := context.Background()

	_, err := widgets.Create(ctx, alice, "clock", nil)
	require.ErrorIs(t, err, ErrValidation)

	_, err = widgets.Create(ctx, alice, domain.WidgetTypeNews, json.RawMessage(`{not json`))
	require.ErrorIs(t, err, ErrValidation)
}

func TestWidgetOwnership(t *testing.T) {
	t.Parallel()

	_, widgets, alice, bob := newTwoUsers(t)
	ctx := context.Background()

	created, err := widgets.Create(ctx, alice, domain.WidgetTypeTodo, nil)
	require.NoError(t, err)

	// bob cannot read, mutate, or delete alice's widget
	_, err = widgets.Get(ctx, bob, created.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = widgets.Update(ctx, bob, created.ID, nil, json.RawMessage(`{"x":1}`))
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, widgets.Delete(ctx, bob, created.ID), ErrForbidden)

	// a missing widget is 404, not 403, regardless of caller
	_, err = widgets.Get(ctx, bob, "missing-id")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWidgetUpdate(t *testing.T) {
	t.Parallel()

	_, widgets, alice, _ := newTwoUsers(t)
	ctx := context.Background()

	created, err := widgets.Create(ctx, alice, domain.WidgetTypeRSS, json.RawMessage(`{"url":"https://example.com/feed"}`))
	require.NoError(t, err)

	newType := domain.WidgetTypeNews
	updated, err := widgets.Update(ctx, alice, created.ID, &newType, json.RawMessage(`{"query":"golang"}`))
	require.NoError(t, err)
	require.Equal(t, domain.WidgetTypeNews, updated.Type)
	require.JSONEq(t, `{"query":"golang"}`, string(updated.Settings))

	// nil settings leaves the payload untouched
	kept, err := widgets.Update(ctx, alice, created.ID, nil, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"query":"golang"}`, string(kept.Settings))
}
