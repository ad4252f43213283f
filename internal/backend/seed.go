package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/domain"
)

// SeedUser is a user together with the API token that authenticates it.
type SeedUser struct {
	domain.User
	Token string `json:"token"`
}

// SeedCard references its owner and likers by user id.
type SeedCard struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c SeedCard) record(now func() time.Time) cardRecord {
	created := c.CreatedAt
	if created.IsZero() {
		created = now().UTC()
	}
	return cardRecord{
		ID:        c.ID,
		Name:      c.Name,
		Link:      c.Link,
		OwnerID:   c.Owner,
		LikeIDs:   append([]string(nil), c.Likes...),
		CreatedAt: created,
	}
}

// SeedData is the initial content of a store.
type SeedData struct {
	Users []SeedUser `json:"users"`
	Cards []SeedCard `json:"cards"`
}

// Validate checks that ids and tokens are unique and that every card refers
// to known users.
func (d SeedData) Validate() error {
	users := make(map[string]bool, len(d.Users))
	tokens := make(map[string]bool, len(d.Users))
	var errs []error
	for _, u := range d.Users {
		switch {
		case u.ID == "":
			errs = append(errs, errors.New("user without _id"))
		case users[u.ID]:
			errs = append(errs, fmt.Errorf("duplicate user %s", u.ID))
		case u.Token == "":
			errs = append(errs, fmt.Errorf("user %s has no token", u.ID))
		case tokens[u.Token]:
			errs = append(errs, fmt.Errorf("user %s reuses a token", u.ID))
		}
		users[u.ID] = true
		tokens[u.Token] = true
	}

	cards := make(map[string]bool, len(d.Cards))
	for _, c := range d.Cards {
		if c.ID == "" || cards[c.ID] {
			errs = append(errs, fmt.Errorf("card %q: missing or duplicate _id", c.ID))
		}
		cards[c.ID] = true
		if !users[c.Owner] {
			errs = append(errs, fmt.Errorf("card %s: unknown owner %s", c.ID, c.Owner))
		}
		seen := make(map[string]bool, len(c.Likes))
		for _, id := range c.Likes {
			if !users[id] {
				errs = append(errs, fmt.Errorf("card %s: unknown liker %s", c.ID, id))
			}
			if seen[id] {
				errs = append(errs, fmt.Errorf("card %s: %s likes twice", c.ID, id))
			}
			seen[id] = true
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}
	return nil
}

// LoadSeed reads and validates a JSON seed file.
func LoadSeed(fs afero.Fs, path string) (SeedData, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return SeedData{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if err := data.Validate(); err != nil {
		return SeedData{}, err
	}
	return data, nil
}

// DemoSeed is used when no seed file is configured.
func DemoSeed() SeedData {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return SeedData{
		Users: []SeedUser{
			{User: domain.User{ID: "cousteau", Name: "Жак-Ив Кусто", About: "Исследователь океана", Avatar: "https://pictures.s3.yandex.net/frontend-developer/common/ava.jpg"}, Token: config.DemoToken},
			{User: domain.User{ID: "diver", Name: "Аквалангист", About: "Фотограф", Avatar: "https://pictures.s3.yandex.net/frontend-developer/common/ava.jpg"}, Token: "diver-token"},
		},
		Cards: []SeedCard{
			{ID: "arkhyz", Name: "Архыз", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/arkhyz.jpg", Owner: "diver", Likes: []string{"cousteau", "diver"}, CreatedAt: base.Add(5 * time.Hour)},
			{ID: "chelyabinsk", Name: "Челябинская область", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/chelyabinsk-oblast.jpg", Owner: "cousteau", Likes: []string{"diver"}, CreatedAt: base.Add(4 * time.Hour)},
			{ID: "ivanovo", Name: "Иваново", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/ivanovo.jpg", Owner: "diver", CreatedAt: base.Add(3 * time.Hour)},
			{ID: "kamchatka", Name: "Камчатка", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/kamchatka.jpg", Owner: "cousteau", Likes: []string{"cousteau"}, CreatedAt: base.Add(2 * time.Hour)},
			{ID: "kholmogorsky", Name: "Холмогорский район", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/kholmogorsky-rayon.jpg", Owner: "diver", CreatedAt: base.Add(time.Hour)},
			{ID: "baikal", Name: "Байкал", Link: "https://pictures.s3.yandex.net/frontend-developer/cards-compressed/baikal.jpg", Owner: "diver", Likes: []string{"diver", "cousteau"}, CreatedAt: base},
		},
	}
}
