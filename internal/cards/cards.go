// Package cards builds the interactive unit for one gallery card.
//
// The factory is a pure projection of a card record: it fills the card
// template and attaches whatever wiring the supplied callbacks return. It
// never calls the remote API and never changes the record.
package cards

import (
	"io"

	g "maragu.dev/gomponents"

	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/web/src/templates/components"
)

// Picture is the payload of an image preview.
type Picture struct {
	Name string
	Link string
}

// LikeRefs are the element ids of a card's like group.
type LikeRefs struct {
	Group  string
	Button string
	Count  string
}

// Refs are the element ids of the mutable parts of a unit, so later patches
// can target them without re-querying.
type Refs struct {
	Unit string
	Like LikeRefs
}

// Callbacks connect a unit to the code that owns application state. Each
// callback returns the trigger wiring for the control it is bound to.
// OnPreviewPicture and OnDelete are optional.
type Callbacks struct {
	OnPreviewPicture func(p Picture) g.Node
	OnLike           func(cardID string, liked bool, refs LikeRefs) g.Node
	OnDelete         func(cardID, unitRef string) g.Node
}

// Unit is a rendered card plus what the caller needs to patch it later.
type Unit struct {
	CardID    string
	Node      g.Node
	Refs      Refs
	Liked     bool
	Deletable bool
	LikeCount int
}

// Render implements g.Node.
func (u Unit) Render(w io.Writer) error {
	return u.Node.Render(w)
}

// RefsFor derives the element ids of the unit of a card.
func RefsFor(cardID string) Refs {
	unit := "card-" + cardID
	return Refs{
		Unit: unit,
		Like: LikeRefs{
			Group:  unit + "-like",
			Button: unit + "-like-button",
			Count:  unit + "-like-count",
		},
	}
}

// Create builds the unit for card as seen by currentUserID. The delete
// control exists only for the owner; the like control is active only when
// the viewer is in the liker set.
func Create(card domain.Card, currentUserID string, cb Callbacks) Unit {
	refs := RefsFor(card.ID)
	u := Unit{
		CardID:    card.ID,
		Refs:      refs,
		Liked:     card.LikedBy(currentUserID),
		Deletable: card.OwnedBy(currentUserID),
		LikeCount: card.LikeCount(),
	}

	slots := components.CardSlots{
		UnitID:    refs.Unit,
		ImageSrc:  card.Link,
		ImageAlt:  card.Name,
		Title:     card.Name,
		LikeGroup: LikeControl(card.ID, refs.Like, u.Liked, u.LikeCount, cb.OnLike),
	}
	if cb.OnPreviewPicture != nil {
		slots.ImageWiring = cb.OnPreviewPicture(Picture{Name: card.Name, Link: card.Link})
	}
	if u.Deletable {
		var wiring g.Node
		if cb.OnDelete != nil {
			wiring = cb.OnDelete(card.ID, refs.Unit)
		}
		slots.DeleteControl = components.DeleteButton(wiring)
	}

	u.Node = components.Card(slots)
	return u
}

// LikeControl renders the like group of a card. It is used both when the
// unit is created and to patch the group after the like set changed.
func LikeControl(cardID string, refs LikeRefs, liked bool, count int, onLike func(string, bool, LikeRefs) g.Node) g.Node {
	var wiring g.Node
	if onLike != nil {
		wiring = onLike(cardID, liked, refs)
	}
	return components.LikeGroup(components.LikeSlots{
		GroupID:  refs.Group,
		ButtonID: refs.Button,
		CountID:  refs.Count,
		Active:   liked,
		Count:    count,
		Wiring:   wiring,
	})
}
