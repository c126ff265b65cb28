package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/postflow"
)

// storeUnderTest runs the contract tests against each implementation.
func storeUnderTest(t *testing.T) map[string]SessionStore {
	sqlite, err := NewSQLite(SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	return map[string]SessionStore{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	for name, s := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := ai.NewSession(ai.PostInput{Topic: "Go testing contract checks", IncludeImage: true})
			session.Draft = ai.Draft{Content: "draft", Hashtags: []string{"go"}}

			require.NoError(t, s.Create(ctx, session))

			got, err := s.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, session.ID, got.ID)
			assert.Equal(t, ai.StatusDrafting, got.Status)
			assert.Equal(t, "draft", got.Draft.Content)
			assert.Equal(t, []string{"go"}, got.Draft.Hashtags)
			assert.True(t, got.Input.IncludeImage)
		})
	}
}

func TestStoreGetUnknownSession(t *testing.T) {
	for name, s := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "sess-missing")
			assert.True(t, ai.IsNotFound(err))
		})
	}
}

func TestStoreUpdatePersists(t *testing.T) {
	for name, s := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := ai.NewSession(ai.PostInput{Topic: "Go update persistence"})
			require.NoError(t, s.Create(ctx, session))

			session.Status = ai.StatusAwaitingDecision
			session.Draft.Content = "updated"
			session.RevisionCount = 2
			session.AppendHistory("tighter hook")
			require.NoError(t, s.Update(ctx, session))

			got, err := s.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, ai.StatusAwaitingDecision, got.Status)
			assert.Equal(t, "updated", got.Draft.Content)
			assert.Equal(t, 2, got.RevisionCount)
			require.Len(t, got.History, 1)
			assert.Equal(t, "tighter hook", got.History[0].Feedback)
		})
	}
}

func TestStoreUpdateUnknownSession(t *testing.T) {
	for name, s := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			session := ai.NewSession(ai.PostInput{Topic: "Go update of missing row"})
			err := s.Update(context.Background(), session)
			assert.True(t, ai.IsNotFound(err))
		})
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	for name, s := range storeUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := ai.NewSession(ai.PostInput{Topic: "Go aliasing protections"})
			session.Draft.Content = "original"
			require.NoError(t, s.Create(ctx, session))

			got, err := s.Get(ctx, session.ID)
			require.NoError(t, err)
			got.Draft.Content = "mutated by caller"

			again, err := s.Get(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, "original", again.Draft.Content)
		})
	}
}

func TestMemoryCreateDuplicate(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	session := ai.NewSession(ai.PostInput{Topic: "Go duplicate detection"})

	require.NoError(t, s.Create(ctx, session))
	assert.Error(t, s.Create(ctx, session))
}
