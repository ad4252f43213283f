package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/mesto/internal/database"
	"github.com/nfrund/mesto/internal/domain"
)

const (
	selectUsers = "SELECT meta::id(id) AS id, name, about, avatar FROM user"
	selectCards = "SELECT meta::id(id) AS id, name, link, owner, likes, created FROM card"
)

type userRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
}

func (r userRow) user() domain.User {
	return domain.User{ID: r.ID, Name: r.Name, About: r.About, Avatar: r.Avatar}
}

type cardRow struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Link    string   `json:"link"`
	Owner   string   `json:"owner"`
	Likes   []string `json:"likes"`
	Created int64    `json:"created"`
}

func (r cardRow) record() cardRecord {
	return cardRecord{
		ID:        r.ID,
		Name:      r.Name,
		Link:      r.Link,
		OwnerID:   r.Owner,
		LikeIDs:   r.Likes,
		CreatedAt: time.Unix(0, r.Created).UTC(),
	}
}

// SurrealStore implements Store on SurrealDB. Users live in the user table
// with their token; cards reference users by id.
type SurrealStore struct {
	conn  *database.Connection
	now   func() time.Time
	newID func() string
}

// NewSurrealStore creates a store on an established connection.
func NewSurrealStore(conn *database.Connection) *SurrealStore {
	return &SurrealStore{conn: conn, now: time.Now, newID: uuid.NewString}
}

var _ Store = (*SurrealStore)(nil)

func (s *SurrealStore) db() (*surrealdb.DB, error) {
	db, err := s.conn.DB()
	if err != nil {
		return nil, fmt.Errorf("surreal store: %w", err)
	}
	return db, nil
}

func (s *SurrealStore) Authenticate(ctx context.Context, token string) (domain.User, error) {
	db, err := s.db()
	if err != nil {
		return domain.User{}, err
	}
	row, err := database.QueryOne[userRow](ctx, db, selectUsers+" WHERE token = $token", map[string]any{"token": token})
	if err != nil {
		return domain.User{}, err
	}
	if row == nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	return row.user(), nil
}

func (s *SurrealStore) User(ctx context.Context, id string) (domain.User, error) {
	db, err := s.db()
	if err != nil {
		return domain.User{}, err
	}
	row, err := database.QueryOne[userRow](ctx, db, selectUsers+" WHERE id = type::thing('user', $id)", map[string]any{"id": id})
	if err != nil {
		return domain.User{}, err
	}
	if row == nil {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return row.user(), nil
}

func (s *SurrealStore) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (domain.User, error) {
	return s.mergeUser(ctx, id, map[string]any{"name": p.Name, "about": p.About})
}

func (s *SurrealStore) UpdateAvatar(ctx context.Context, id, avatar string) (domain.User, error) {
	return s.mergeUser(ctx, id, map[string]any{"avatar": avatar})
}

func (s *SurrealStore) mergeUser(ctx context.Context, id string, data map[string]any) (domain.User, error) {
	if _, err := s.User(ctx, id); err != nil {
		return domain.User{}, err
	}
	db, err := s.db()
	if err != nil {
		return domain.User{}, err
	}
	if err := database.Execute(ctx, db, "UPDATE type::thing('user', $id) MERGE $data", map[string]any{"id": id, "data": data}); err != nil {
		return domain.User{}, err
	}
	return s.User(ctx, id)
}

func (s *SurrealStore) Cards(ctx context.Context) ([]domain.Card, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	rows, err := database.Query[cardRow](ctx, db, selectCards+" ORDER BY created DESC", nil)
	if err != nil {
		return nil, err
	}
	users, err := s.userIndex(ctx, db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Card, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record().resolve(users))
	}
	return out, nil
}

func (s *SurrealStore) card(ctx context.Context, db *surrealdb.DB, id string) (domain.Card, cardRecord, error) {
	row, err := database.QueryOne[cardRow](ctx, db, selectCards+" WHERE id = type::thing('card', $id)", map[string]any{"id": id})
	if err != nil {
		return domain.Card{}, cardRecord{}, err
	}
	if row == nil {
		return domain.Card{}, cardRecord{}, fmt.Errorf("card %s: %w", id, domain.ErrNotFound)
	}
	users, err := s.userIndex(ctx, db)
	if err != nil {
		return domain.Card{}, cardRecord{}, err
	}
	rec := row.record()
	return rec.resolve(users), rec, nil
}

func (s *SurrealStore) userIndex(ctx context.Context, db *surrealdb.DB) (map[string]domain.User, error) {
	rows, err := database.Query[userRow](ctx, db, selectUsers, nil)
	if err != nil {
		return nil, err
	}
	users := make(map[string]domain.User, len(rows))
	for _, r := range rows {
		users[r.ID] = r.user()
	}
	return users, nil
}

func (s *SurrealStore) CreateCard(ctx context.Context, ownerID string, nc domain.NewCard) (domain.Card, error) {
	if _, err := s.User(ctx, ownerID); err != nil {
		return domain.Card{}, err
	}
	db, err := s.db()
	if err != nil {
		return domain.Card{}, err
	}
	id := s.newID()
	err = database.Execute(ctx, db, "CREATE type::thing('card', $id) CONTENT $data", map[string]any{
		"id":   id,
		"data": cardContent(nc.Name, nc.Link, ownerID, nil, s.now()),
	})
	if err != nil {
		return domain.Card{}, err
	}
	card, _, err := s.card(ctx, db, id)
	return card, err
}

func (s *SurrealStore) DeleteCard(ctx context.Context, userID, cardID string) error {
	db, err := s.db()
	if err != nil {
		return err
	}
	_, rec, err := s.card(ctx, db, cardID)
	if err != nil {
		return err
	}
	if rec.OwnerID != userID {
		return fmt.Errorf("card %s: %w", cardID, domain.ErrForbidden)
	}
	return database.Execute(ctx, db, "DELETE type::thing('card', $id)", map[string]any{"id": cardID})
}

func (s *SurrealStore) SetLike(ctx context.Context, userID, cardID string, like bool) (domain.Card, error) {
	db, err := s.db()
	if err != nil {
		return domain.Card{}, err
	}
	_, rec, err := s.card(ctx, db, cardID)
	if err != nil {
		return domain.Card{}, err
	}
	err = database.Execute(ctx, db, "UPDATE type::thing('card', $id) SET likes = $likes", map[string]any{
		"id":    cardID,
		"likes": withLike(rec.LikeIDs, userID, like),
	})
	if err != nil {
		return domain.Card{}, err
	}
	card, _, err := s.card(ctx, db, cardID)
	return card, err
}

func (s *SurrealStore) Seed(ctx context.Context, data SeedData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	db, err := s.db()
	if err != nil {
		return err
	}
	if err := database.Execute(ctx, db, "DELETE card; DELETE user;", nil); err != nil {
		return err
	}
	for _, u := range data.Users {
		err := database.Execute(ctx, db, "CREATE type::thing('user', $id) CONTENT $data", map[string]any{
			"id": u.ID,
			"data": map[string]any{
				"name":   u.Name,
				"about":  u.About,
				"avatar": u.Avatar,
				"token":  u.Token,
			},
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, c := range data.Cards {
		rec := c.record(s.now)
		err := database.Execute(ctx, db, "CREATE type::thing('card', $id) CONTENT $data", map[string]any{
			"id":   rec.ID,
			"data": cardContent(rec.Name, rec.Link, rec.OwnerID, rec.LikeIDs, rec.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("seed card %s: %w", c.ID, err)
		}
	}
	return nil
}

func cardContent(name, link, owner string, likes []string, created time.Time) map[string]any {
	if likes == nil {
		likes = []string{}
	}
	return map[string]any{
		"name":    name,
		"link":    link,
		"owner":   owner,
		"likes":   likes,
		"created": created.UnixNano(),
	}
}
