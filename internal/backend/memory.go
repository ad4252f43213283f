package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nfrund/mesto/internal/domain"
)

// MemoryStore implements Store in memory. Intended for demos and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	tokens map[string]string
	cards  map[string]cardRecord

	now   func() time.Time
	newID func() string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]domain.User),
		tokens: make(map[string]string),
		cards:  make(map[string]cardRecord),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Authenticate(_ context.Context, token string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	return s.users[id], nil
}

func (s *MemoryStore) User(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, id string, p domain.ProfileUpdate) (domain.User, error) {
	return s.updateUser(id, func(u *domain.User) {
		u.Name, u.About = p.Name, p.About
	})
}

func (s *MemoryStore) UpdateAvatar(_ context.Context, id, avatar string) (domain.User, error) {
	return s.updateUser(id, func(u *domain.User) {
		u.Avatar = avatar
	})
}

func (s *MemoryStore) updateUser(id string, apply func(*domain.User)) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	apply(&u)
	s.users[id] = u
	return u, nil
}

func (s *MemoryStore) Cards(_ context.Context) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]cardRecord, 0, len(s.cards))
	for _, r := range s.cards {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	out := make([]domain.Card, 0, len(records))
	for _, r := range records {
		out = append(out, r.resolve(s.users))
	}
	return out, nil
}

func (s *MemoryStore) CreateCard(_ context.Context, ownerID string, nc domain.NewCard) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[ownerID]; !ok {
		return domain.Card{}, fmt.Errorf("owner %s: %w", ownerID, domain.ErrNotFound)
	}
	r := cardRecord{
		ID:        s.newID(),
		Name:      nc.Name,
		Link:      nc.Link,
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
	}
	s.cards[r.ID] = r
	return r.resolve(s.users), nil
}

func (s *MemoryStore) DeleteCard(_ context.Context, userID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.cards[cardID]
	if !ok {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	if r.OwnerID != userID {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrForbidden)
	}
	delete(s.cards, cardID)
	return nil
}

func (s *MemoryStore) SetLike(_ context.Context, userID, cardID string, like bool) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.cards[cardID]
	if !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", cardID, domain.ErrNotFound)
	}
	r.LikeIDs = withLike(r.LikeIDs, userID, like)
	s.cards[cardID] = r
	return r.resolve(s.users), nil
}

func (s *MemoryStore) Seed(_ context.Context, data SeedData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]domain.User, len(data.Users))
	s.tokens = make(map[string]string, len(data.Users))
	s.cards = make(map[string]cardRecord, len(data.Cards))
	for _, u := range data.Users {
		s.users[u.ID] = u.User
		s.tokens[u.Token] = u.ID
	}
	for _, c := range data.Cards {
		s.cards[c.ID] = c.record(s.now)
	}
	return nil
}
