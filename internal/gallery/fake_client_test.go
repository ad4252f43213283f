package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/domain"
)

// fakeClient is an in-memory api.Client. fail makes the named operation
// return a 500 StatusError; block makes it wait until released.
type fakeClient struct {
	mu      sync.Mutex
	me      domain.User
	cards   []domain.Card
	fail    map[string]bool
	block   map[string]chan struct{}
	started chan string
	calls   []string
	nextID  int
}

func newFakeClient() *fakeClient {
	me := domain.User{ID: "me", Name: "Жак-Ив Кусто", About: "Исследователь океана", Avatar: "https://example.com/me.jpg"}
	other := domain.User{ID: "other", Name: "Другой"}
	return &fakeClient{
		me: me,
		cards: []domain.Card{
			{ID: "c1", Name: "Архыз", Link: "https://example.com/1.jpg", Owner: me, Likes: []domain.User{other}},
			{ID: "c2", Name: "Байкал", Link: "https://example.com/2.jpg", Owner: other, Likes: []domain.User{me, other}},
		},
		fail:    map[string]bool{},
		block:   map[string]chan struct{}{},
		started: make(chan string, 16),
	}
}

var _ api.Client = (*fakeClient)(nil)

func (f *fakeClient) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	failing := f.fail[op]
	gate := f.block[op]
	f.mu.Unlock()

	select {
	case f.started <- op:
	default:
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failing {
		return &api.StatusError{Method: "TEST", Path: "/" + op, Status: 500}
	}
	return nil
}

func (f *fakeClient) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) GetCurrentUser(ctx context.Context) (domain.User, error) {
	if err := f.enter(ctx, "user"); err != nil {
		return domain.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.me, nil
}

func (f *fakeClient) GetCardList(ctx context.Context) ([]domain.Card, error) {
	if err := f.enter(ctx, "cards"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Card(nil), f.cards...), nil
}

func (f *fakeClient) UpdateUserProfile(ctx context.Context, p domain.ProfileUpdate) (domain.User, error) {
	if err := f.enter(ctx, "profile"); err != nil {
		return domain.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.me.Name, f.me.About = p.Name, p.About
	return f.me, nil
}

func (f *fakeClient) UpdateUserAvatar(ctx context.Context, url string) (domain.User, error) {
	if err := f.enter(ctx, "avatar"); err != nil {
		return domain.User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.me.Avatar = url
	return f.me, nil
}

func (f *fakeClient) CreateCard(ctx context.Context, nc domain.NewCard) (domain.Card, error) {
	if err := f.enter(ctx, "create"); err != nil {
		return domain.Card{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	card := domain.Card{ID: fmt.Sprintf("new%d", f.nextID), Name: nc.Name, Link: nc.Link, Owner: f.me}
	f.cards = append([]domain.Card{card}, f.cards...)
	return card, nil
}

func (f *fakeClient) DeleteCard(ctx context.Context, id string) error {
	if err := f.enter(ctx, "delete:"+id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.cards {
		if c.ID == id {
			f.cards = append(f.cards[:i], f.cards[i+1:]...)
			return nil
		}
	}
	return &api.StatusError{Method: "DELETE", Path: "/cards/" + id, Status: 404}
}

func (f *fakeClient) SetLikeStatus(ctx context.Context, id string, like bool) (domain.Card, error) {
	if err := f.enter(ctx, "like"); err != nil {
		return domain.Card{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cards {
		c := &f.cards[i]
		if c.ID != id {
			continue
		}
		kept := c.Likes[:0:0]
		for _, u := range c.Likes {
			if u.ID != f.me.ID {
				kept = append(kept, u)
			}
		}
		if like {
			kept = append(kept, f.me)
		}
		c.Likes = kept
		return *c, nil
	}
	return domain.Card{}, errors.New("no such card")
}
