package rendering

import (
	"fmt"
	"net/http"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/mesto/web/src/templates/layouts"
)

// ErrorPage is the standalone page shown for failed full-page requests.
func ErrorPage(status int, message string) g.Node {
	title := fmt.Sprintf("%d %s", status, http.StatusText(status))
	return layouts.Base(title,
		h.Main(
			h.Class("error-page"),
			h.H1(h.Class("error-page__title"), g.Text(title)),
			h.P(h.Class("error-page__message"), g.Text(message)),
			h.A(h.Class("error-page__link"), h.Href("/"), g.Text("На главную")),
		),
	)
}
