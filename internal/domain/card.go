package domain

import "time"

// Card is a single gallery entry. Likes is the liker set: ids are unique and
// the order in which users liked the card is preserved.
type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     User      `json:"owner"`
	Likes     []User    `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCard is the payload of the "add card" flow.
type NewCard struct {
	Name string `json:"name" validate:"required,min=2,max=30"`
	Link string `json:"link" validate:"required,url"`
}

// LikeCount returns the size of the liker set.
func (c Card) LikeCount() int {
	return len(c.Likes)
}

// LikedBy reports whether userID is in the liker set.
func (c Card) LikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	for _, u := range c.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether userID created the card.
func (c Card) OwnedBy(userID string) bool {
	return userID != "" && c.Owner.ID == userID
}
