package modal

import (
	"strings"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Dialog describes one overlay of the page.
type Dialog struct {
	ID ID
	// TypeClass is the modifier class of this dialog, e.g. popup_type_edit.
	TypeClass string
	// CloseURL answers with the dialog rendered closed.
	CloseURL string
}

// ElementID is the DOM id of the overlay element.
func (d Dialog) ElementID() string {
	return "popup-" + string(d.ID)
}

func (d Dialog) selector() string {
	return "#" + d.ElementID()
}

// Class returns the class list of the overlay in the given state.
func (d Dialog) Class(open bool) string {
	classes := []string{"popup"}
	if d.TypeClass != "" {
		classes = append(classes, d.TypeClass)
	}
	if open {
		classes = append(classes, VisibleClass)
	}
	return strings.Join(classes, " ")
}

// Render renders the overlay. The content area stops click propagation so
// only clicks on the overlay itself dismiss the dialog, and the Escape
// listener exists only while the dialog is open.
func Render(d Dialog, open bool, content ...g.Node) g.Node {
	return render(d, open, nil, content)
}

// RenderOOB renders the overlay as an out-of-band replacement of the one on
// the page, so it can ride along with a response aimed elsewhere.
func RenderOOB(d Dialog, open bool, content ...g.Node) g.Node {
	return render(d, open, hx.SwapOOB("true"), content)
}

func render(d Dialog, open bool, oob g.Node, content []g.Node) g.Node {
	return h.Div(
		h.ID(d.ElementID()),
		h.Class(d.Class(open)),
		g.Attr("aria-hidden", ariaHidden(open)),
		g.If(oob != nil, oob),
		DismissHandlers(d),
		g.If(open, EscapeListener(d)),
		h.Div(
			h.Class("popup__content"),
			g.Attr("hx-on:click", "event.stopPropagation()"),
			closeControl(d),
			g.Group(content),
		),
	)
}

// DismissHandlers are installed on every overlay: a click whose target is
// the overlay element closes the dialog.
func DismissHandlers(d Dialog) g.Node {
	return g.Group([]g.Node{
		hx.Post(d.CloseURL),
		hx.Trigger("click target:" + d.selector()),
		hx.Target("this"),
		hx.Swap("outerHTML"),
	})
}

// EscapeListener closes the dialog on Escape. It is rendered only inside an
// open dialog, so re-rendering the dialog closed removes it.
func EscapeListener(d Dialog) g.Node {
	return h.Span(
		h.Class("popup__escape"),
		g.Attr("hidden"),
		hx.Post(d.CloseURL),
		hx.Trigger("keyup[key=='Escape'] from:body"),
		hx.Target(d.selector()),
		hx.Swap("outerHTML"),
	)
}

func closeControl(d Dialog) g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("popup__close"),
		g.Attr("aria-label", "Закрыть"),
		hx.Post(d.CloseURL),
		hx.Target(d.selector()),
		hx.Swap("outerHTML"),
	)
}

func ariaHidden(open bool) string {
	if open {
		return "false"
	}
	return "true"
}
