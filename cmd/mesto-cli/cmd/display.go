package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/internal/gallery"
)

// cardDisplay is the JSON shape of one card.
type cardDisplay struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

type contributorDisplay struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Likes int    `json:"likes"`
}

func toCardDisplay(c domain.Card) cardDisplay {
	return cardDisplay{
		ID:        c.ID,
		Name:      c.Name,
		Link:      c.Link,
		Owner:     c.Owner.Name,
		Likes:     c.LikeCount(),
		CreatedAt: c.CreatedAt,
	}
}

func displayCardsTable(out io.Writer, cards []domain.Card) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tOWNER\tLIKES\tCREATED")
	fmt.Fprintln(w, "--\t----\t-----\t-----\t-------")

	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found")
	}
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.ID,
			truncateString(c.Name, 30),
			truncateString(c.Owner.Name, 20),
			c.LikeCount(),
			c.CreatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

func displayCardsJSON(out io.Writer, cards []domain.Card) error {
	displays := make([]cardDisplay, len(cards))
	for i, c := range cards {
		displays[i] = toCardDisplay(c)
	}
	return encodeJSON(out, struct {
		Cards []cardDisplay `json:"cards"`
		Count int           `json:"count"`
	}{displays, len(displays)})
}

func displayStatsTable(out io.Writer, st gallery.Stats) error {
	fmt.Fprintf(out, "Участников:   %d\n", st.Participants)
	fmt.Fprintf(out, "Всего лайков: %d\n", st.TotalLikes)
	if st.TopContributor.Likes > 0 {
		fmt.Fprintf(out, "Самый активный: %s (%d)\n", st.TopContributor.User.Name, st.TopContributor.Likes)
	}
	if len(st.TopCards) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nПопулярные карточки:")
	for i, c := range st.TopCards {
		fmt.Fprintf(out, "  %d. %s (%d лайков)\n", i+1, c.Name, c.LikeCount())
	}
	return nil
}

func displayStatsJSON(out io.Writer, st gallery.Stats) error {
	top := make([]cardDisplay, len(st.TopCards))
	for i, c := range st.TopCards {
		top[i] = toCardDisplay(c)
	}
	var contributor *contributorDisplay
	if st.TopContributor.Likes > 0 {
		contributor = &contributorDisplay{
			ID:    st.TopContributor.User.ID,
			Name:  st.TopContributor.User.Name,
			Likes: st.TopContributor.Likes,
		}
	}
	return encodeJSON(out, struct {
		Participants   int                 `json:"participants"`
		TotalLikes     int                 `json:"totalLikes"`
		TopContributor *contributorDisplay `json:"topContributor"`
		TopCards       []cardDisplay       `json:"topCards"`
	}{st.Participants, st.TotalLikes, contributor, top})
}

func encodeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// truncateString shortens s to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
