// Package components holds the markup templates the gallery fills in: the
// card unit, its like group, the statistics line and the top-card badge.
package components

import (
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// CardSlots are the named slots of the card template.
type CardSlots struct {
	UnitID   string
	ImageSrc string
	ImageAlt string
	Title    string
	// ImageWiring is attached to the image; nil leaves it inert.
	ImageWiring g.Node
	// DeleteControl is omitted from the markup when nil.
	DeleteControl g.Node
	LikeGroup     g.Node
}

// Card renders one card unit.
func Card(s CardSlots) g.Node {
	return h.Li(
		h.ID(s.UnitID),
		h.Class("places__item card"),
		h.Img(
			h.Class("card__image"),
			h.Src(s.ImageSrc),
			h.Alt(s.ImageAlt),
			g.If(s.ImageWiring != nil, s.ImageWiring),
		),
		g.If(s.DeleteControl != nil, s.DeleteControl),
		h.Div(
			h.Class("card__description"),
			h.H2(h.Class("card__title"), g.Text(s.Title)),
			s.LikeGroup,
		),
	)
}

// DeleteButton is the owner-only delete control.
func DeleteButton(wiring g.Node) g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("card__control-button card__control-button_type_delete"),
		g.Attr("aria-label", "Удалить"),
		g.If(wiring != nil, wiring),
	)
}

// LikeSlots are the named slots of the like group.
type LikeSlots struct {
	GroupID  string
	ButtonID string
	CountID  string
	Active   bool
	Count    int
	Wiring   g.Node
}

// LikeActiveClass marks a like button of a card the viewer has liked.
const LikeActiveClass = "card__like-button_is-active"

// LikeGroup renders the like button and the like counter.
func LikeGroup(s LikeSlots) g.Node {
	class := "card__like-button"
	if s.Active {
		class += " " + LikeActiveClass
	}
	return h.Div(
		h.ID(s.GroupID),
		h.Class("card__like-group"),
		h.Button(
			h.ID(s.ButtonID),
			h.Type("button"),
			h.Class(class),
			g.Attr("aria-pressed", strconv.FormatBool(s.Active)),
			g.If(s.Wiring != nil, s.Wiring),
		),
		h.Span(h.ID(s.CountID), h.Class("card__like-count"), g.Text(strconv.Itoa(s.Count))),
	)
}
