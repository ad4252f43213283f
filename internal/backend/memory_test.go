package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mesto/internal/domain"
)

func seededMemory(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	require.NoError(t, s.Seed(context.Background(), DemoSeed()))
	return s
}

func ids(cards []domain.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestMemoryStore_Authenticate(t *testing.T) {
	s := seededMemory(t)
	ctx := context.Background()

	u, err := s.Authenticate(ctx, "demo-token")
	require.NoError(t, err)
	assert.Equal(t, "cousteau", u.ID)

	_, err = s.Authenticate(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestMemoryStore_CardsNewestFirst(t *testing.T) {
	s := seededMemory(t)

	list, err := s.Cards(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"arkhyz", "chelyabinsk", "ivanovo", "kamchatka", "kholmogorsky", "baikal"}, ids(list))
	assert.Equal(t, "Аквалангист", list[0].Owner.Name, "owner is resolved to the full profile")
	assert.Equal(t, "cousteau", list[0].Likes[0].ID)
}

func TestMemoryStore_CreateCard(t *testing.T) {
	s := seededMemory(t)
	s.now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "fresh" }
	ctx := context.Background()

	card, err := s.CreateCard(ctx, "cousteau", domain.NewCard{Name: "Эльбрус", Link: "https://example.com/e.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", card.ID)
	assert.Equal(t, "cousteau", card.Owner.ID)
	assert.Empty(t, card.Likes)

	list, err := s.Cards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", list[0].ID)

	_, err = s.CreateCard(ctx, "ghost", domain.NewCard{Name: "x", Link: "y"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryStore_DeleteCard(t *testing.T) {
	s := seededMemory(t)
	ctx := context.Background()

	err := s.DeleteCard(ctx, "cousteau", "arkhyz")
	assert.True(t, errors.Is(err, domain.ErrForbidden), "only the owner may delete")

	err = s.DeleteCard(ctx, "cousteau", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, s.DeleteCard(ctx, "cousteau", "kamchatka"))
	list, _ := s.Cards(ctx)
	assert.NotContains(t, ids(list), "kamchatka")
}

func TestMemoryStore_SetLikeIsASet(t *testing.T) {
	s := seededMemory(t)
	ctx := context.Background()

	card, err := s.SetLike(ctx, "cousteau", "ivanovo", true)
	require.NoError(t, err)
	assert.Equal(t, 1, card.LikeCount())

	card, err = s.SetLike(ctx, "cousteau", "ivanovo", true)
	require.NoError(t, err)
	assert.Equal(t, 1, card.LikeCount(), "liking twice keeps one entry")

	card, err = s.SetLike(ctx, "diver", "ivanovo", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"cousteau", "diver"}, []string{card.Likes[0].ID, card.Likes[1].ID})

	card, err = s.SetLike(ctx, "cousteau", "ivanovo", false)
	require.NoError(t, err)
	assert.False(t, card.LikedBy("cousteau"))
	assert.True(t, card.LikedBy("diver"))

	_, err = s.SetLike(ctx, "cousteau", "missing", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryStore_ProfileEditsShowOnCards(t *testing.T) {
	s := seededMemory(t)
	ctx := context.Background()

	_, err := s.UpdateProfile(ctx, "diver", domain.ProfileUpdate{Name: "Ныряльщик", About: "Подводник"})
	require.NoError(t, err)
	u, err := s.UpdateAvatar(ctx, "diver", "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "Ныряльщик", u.Name)
	assert.Equal(t, "https://example.com/a.png", u.Avatar)

	list, err := s.Cards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ныряльщик", list[0].Owner.Name)

	_, err = s.UpdateProfile(ctx, "ghost", domain.ProfileUpdate{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWithLike(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		user string
		like bool
		want []string
	}{
		{"add to empty", nil, "a", true, []string{"a"}},
		{"append keeps order", []string{"b", "c"}, "a", true, []string{"b", "c", "a"}},
		{"existing keeps position", []string{"a", "b"}, "a", true, []string{"a", "b"}},
		{"remove", []string{"a", "b"}, "a", false, []string{"b"}},
		{"remove absent", []string{"b"}, "a", false, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withLike(tt.ids, tt.user, tt.like))
		})
	}
}
