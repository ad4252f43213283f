package components

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// StatLine is one term/value row of the statistics dialog.
func StatLine(term, description string) g.Node {
	return h.Div(
		h.Class("popup__info-item"),
		h.Dt(h.Class("popup__info-term"), g.Text(term)),
		h.Dd(h.Class("popup__info-description"), g.Text(description)),
	)
}

// Badge is one entry of the popular cards list.
func Badge(text string) g.Node {
	return h.Li(
		h.Class("popup__list-item popup__list-item_type_badge"),
		g.Text(text),
	)
}
