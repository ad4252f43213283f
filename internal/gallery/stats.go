package gallery

import (
	"sort"

	"github.com/nfrund/mesto/internal/domain"
)

// topCardsLimit is the length of the popular cards list.
const topCardsLimit = 3

// Contributor is a user together with the number of likes they gave.
type Contributor struct {
	User  domain.User
	Likes int
}

// Stats is the aggregate view of one card list snapshot.
type Stats struct {
	// Participants counts distinct owners and likers.
	Participants int
	TotalLikes   int
	// TopContributor gave the most likes; on a tie the first one met while
	// walking cards and their likes in order wins. Zero when nobody liked
	// anything.
	TopContributor Contributor
	TopCards       []domain.Card
}

// ComputeStats derives Stats from cards without modifying them.
func ComputeStats(cards []domain.Card) Stats {
	var st Stats

	participants := make(map[string]struct{})
	given := make(map[string]*Contributor)
	var order []string

	for _, card := range cards {
		participants[card.Owner.ID] = struct{}{}
		st.TotalLikes += card.LikeCount()
		for _, u := range card.Likes {
			participants[u.ID] = struct{}{}
			c, ok := given[u.ID]
			if !ok {
				c = &Contributor{User: u}
				given[u.ID] = c
				order = append(order, u.ID)
			}
			c.Likes++
		}
	}
	st.Participants = len(participants)

	for _, id := range order {
		if c := given[id]; c.Likes > st.TopContributor.Likes {
			st.TopContributor = *c
		}
	}

	top := make([]domain.Card, len(cards))
	copy(top, cards)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].LikeCount() > top[j].LikeCount()
	})
	if len(top) > topCardsLimit {
		top = top[:topCardsLimit]
	}
	st.TopCards = top

	return st
}
