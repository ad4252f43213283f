// Package backend is a local implementation of the Mesto REST API: a Store
// holding users and cards, and the echo handler that serves it.
package backend

import (
	"context"
	"time"

	"github.com/nfrund/mesto/internal/domain"
)

// Store persists users and cards. Implementations return the domain
// sentinels: ErrUnauthorized for an unknown token, ErrNotFound for a missing
// record and ErrForbidden when a user deletes a card they do not own.
type Store interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
	User(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (domain.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error)

	// Cards returns every card, newest first.
	Cards(ctx context.Context) ([]domain.Card, error)
	CreateCard(ctx context.Context, ownerID string, nc domain.NewCard) (domain.Card, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
	// SetLike adds or removes userID in the liker set and returns the card.
	SetLike(ctx context.Context, userID, cardID string, like bool) (domain.Card, error)

	// Seed replaces the stored records with data.
	Seed(ctx context.Context, data SeedData) error
}

// cardRecord is a card as stored: owner and likers are user ids resolved
// on read, so profile edits show up on every card.
type cardRecord struct {
	ID        string
	Name      string
	Link      string
	OwnerID   string
	LikeIDs   []string
	CreatedAt time.Time
}

func (r cardRecord) resolve(users map[string]domain.User) domain.Card {
	card := domain.Card{
		ID:        r.ID,
		Name:      r.Name,
		Link:      r.Link,
		Owner:     lookupUser(users, r.OwnerID),
		Likes:     make([]domain.User, 0, len(r.LikeIDs)),
		CreatedAt: r.CreatedAt,
	}
	for _, id := range r.LikeIDs {
		card.Likes = append(card.Likes, lookupUser(users, id))
	}
	return card
}

func lookupUser(users map[string]domain.User, id string) domain.User {
	if u, ok := users[id]; ok {
		return u
	}
	return domain.User{ID: id}
}

// withLike returns ids with userID present or absent. Existing order is
// kept and a new liker goes last.
func withLike(ids []string, userID string, like bool) []string {
	out := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	if !like {
		return out
	}
	for _, id := range ids {
		if id == userID {
			// Already liked: keep the original position.
			return append([]string(nil), ids...)
		}
	}
	return append(out, userID)
}
