package layouts

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@1.9.12"

// Base wraps page content in the document shell: head, stylesheet and the
// htmx runtime.
func Base(title string, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang("ru"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(CalculateTitle(title))),
				h.Link(h.Rel("stylesheet"), h.Href("/static/styles.css")),
				h.Script(h.Src(htmxSrc), g.Attr("defer")),
			),
			h.Body(
				h.Class("page"),
				h.Div(h.Class("page__content"), g.Group(body)),
			),
		),
	)
}
