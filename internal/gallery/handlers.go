package gallery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"

	"github.com/nfrund/mesto/internal/cards"
	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/modal"
	"github.com/nfrund/mesto/internal/rendering"
)

const (
	sessionName         = "mesto"
	sessionKeyWorkspace = "workspace"
)

// Handler answers the htmx requests of the gallery page. Failures are
// answered with 200 so htmx swaps the dialog carrying the inline error.
type Handler struct {
	ctrl       *Controller
	workspaces *Workspaces
	renderer   rendering.Renderer
}

// NewHandler creates the gallery handler.
func NewHandler(ctrl *Controller, workspaces *Workspaces, renderer rendering.Renderer) *Handler {
	return &Handler{ctrl: ctrl, workspaces: workspaces, renderer: renderer}
}

// Routes registers the gallery routes. mutate guards the routes that reach
// the remote API with a write.
func (h *Handler) Routes(r *echo.Group, mutate ...echo.MiddlewareFunc) {
	r.GET("/", h.Page)
	r.POST("/dialogs/:id/open", h.OpenDialog)
	r.POST("/dialogs/:id/close", h.CloseDialog)
	r.POST("/forms/:form/validate", h.Validate)
	r.POST("/forms/:form/submit", h.Submit, mutate...)
	r.POST("/cards/:id/like", h.Like, mutate...)
	r.POST("/cards/:id/delete-request", h.RequestDelete)
}

// workspace returns the workspace bound to the browser's session cookie.
func (h *Handler) workspace(c echo.Context) (*Workspace, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err != nil {
		// An undecodable cookie yields a fresh session.
		middleware.FromContext(c.Request().Context()).Debug("replacing unreadable session", "error", err)
	}
	id, _ := sess.Values[sessionKeyWorkspace].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[sessionKeyWorkspace] = id
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	return h.workspaces.Get(id), nil
}

func (h *Handler) respond(c echo.Context, nodes ...g.Node) error {
	parts := make([]g.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			parts = append(parts, n)
		}
	}
	return h.renderer.RenderPage(c, http.StatusOK, g.Group(parts))
}

// Page renders the gallery. A reload starts with every dialog closed.
func (h *Handler) Page(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if s, ok := ws.Modal.Active(); ok {
		h.ctrl.Close(ws, s.Dialog)
	}

	ctx := c.Request().Context()
	user, list, err := h.ctrl.Load(ctx)
	loadErr := ""
	if err != nil {
		loadErr = failureMessage(err)
	}

	callbacks := cardCallbacks()
	units := make([]cards.Unit, 0, len(list))
	for _, card := range list {
		units = append(units, cards.Create(card, user.ID, callbacks))
	}

	dialogs := make([]g.Node, 0, 6)
	for _, id := range []modal.ID{DialogProfile, DialogNewCard, DialogImage, DialogAvatar, DialogDelete, DialogInfo} {
		dialogs = append(dialogs, modal.Render(dialogFor(id), false, h.closedContent(ws, id)...))
	}
	return h.respond(c, pageView(user, units, dialogs, loadErr))
}

// OpenDialog opens one of the dialogs that have an opener on the page.
func (h *Handler) OpenDialog(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var (
		node g.Node
		prev *modal.Session
	)
	switch id := modal.ID(c.Param("id")); id {
	case DialogProfile:
		var view FormView
		view, prev = h.ctrl.OpenProfile(ctx, ws)
		node = formDialog(view, true)
	case DialogAvatar:
		var view FormView
		view, prev = h.ctrl.OpenAvatar(ws)
		node = formDialog(view, true)
	case DialogNewCard:
		var view FormView
		view, prev = h.ctrl.OpenNewCard(ws)
		node = formDialog(view, true)
	case DialogImage:
		p := cards.Picture{Name: c.FormValue("name"), Link: c.FormValue("link")}
		prev = h.ctrl.OpenPreview(ws, p)
		node = imageDialog(p, true)
	case DialogInfo:
		var st Stats
		st, prev, err = h.ctrl.OpenStats(ctx, ws)
		errMsg := ""
		if err != nil {
			errMsg = failureMessage(err)
		}
		node = statsDialog(st, errMsg, true)
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown dialog")
	}
	return h.respond(c, node, h.forceClosed(ws, prev))
}

// CloseDialog closes a dialog and renders it in its neutral state.
func (h *Handler) CloseDialog(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	id := modal.ID(c.Param("id"))
	content := h.closedContent(ws, id)
	if content == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown dialog")
	}
	h.ctrl.Close(ws, id)
	return h.respond(c, modal.Render(dialogFor(id), false, content...))
}

// Validate re-evaluates a form on every input event.
func (h *Handler) Validate(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	def, ok := h.ctrl.Forms().byID(c.Param("form"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown form")
	}
	view := h.ctrl.revalidate(ws, def, formValues(c, def))
	trigger, err := json.Marshal(map[string]any{fieldsValidatedEvent: inputClasses(view)})
	if err != nil {
		return err
	}
	c.Response().Header().Set("HX-Trigger", string(trigger))
	return h.respond(c, validationPatch(view)...)
}

// Submit runs one form submission and answers with the settled dialog plus
// the page patches of a success.
func (h *Handler) Submit(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	forms := h.ctrl.Forms()

	switch c.Param("form") {
	case FormProfile:
		out := h.ctrl.SubmitProfile(ctx, ws, formValues(c, forms.Profile))
		if !out.OK() {
			return h.respond(c, formDialog(out.View, true))
		}
		return h.respond(c,
			formDialog(out.View, false),
			profileTitleNode(out.Result.Name, true),
			profileDescriptionNode(out.Result.About, true),
		)
	case FormAvatar:
		out := h.ctrl.SubmitAvatar(ctx, ws, formValues(c, forms.Avatar))
		if !out.OK() {
			return h.respond(c, formDialog(out.View, true))
		}
		return h.respond(c, formDialog(out.View, false), avatarNode(out.Result.Avatar, true))
	case FormNewCard:
		out := h.ctrl.SubmitNewCard(ctx, ws, formValues(c, forms.NewCard))
		if !out.OK() {
			return h.respond(c, formDialog(out.View, true))
		}
		unit := cards.Create(out.Result, h.ctrl.CurrentUserID(ctx), cardCallbacks())
		return h.respond(c, formDialog(out.View, false), prependCardPatch(unit))
	case FormDelete:
		out := h.ctrl.ConfirmDelete(ctx, ws)
		if !out.OK() {
			return h.respond(c, formDialog(out.View, true))
		}
		return h.respond(c, formDialog(out.View, false), removeCardPatch(out.Result.UnitRef))
	}
	return echo.NewHTTPError(http.StatusNotFound, "unknown form")
}

// Like flips the like of a card. A failure answers 204 so the control stays
// as it was.
func (h *Handler) Like(c echo.Context) error {
	cardID := c.Param("id")
	liked, err := strconv.ParseBool(c.FormValue("liked"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "liked must be a boolean")
	}

	card, nowLiked, err := h.ctrl.ToggleLike(c.Request().Context(), cardID, liked)
	if err != nil {
		return c.NoContent(http.StatusNoContent)
	}
	refs := cards.RefsFor(cardID).Like
	return h.respond(c, cards.LikeControl(cardID, refs, nowLiked, card.LikeCount(), cardCallbacks().OnLike))
}

// RequestDelete records the pending delete and opens the confirmation.
func (h *Handler) RequestDelete(c echo.Context) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	cardID := c.Param("id")
	unit := c.FormValue("unit")
	if unit == "" {
		unit = cards.RefsFor(cardID).Unit
	}
	view, prev := h.ctrl.RequestDelete(ws, PendingDelete{CardID: cardID, UnitRef: unit})
	return h.respond(c, formDialog(view, true), h.forceClosed(ws, prev))
}

// forceClosed renders a dialog that was closed by opening another one.
func (h *Handler) forceClosed(ws *Workspace, prev *modal.Session) g.Node {
	if prev == nil {
		return nil
	}
	return modal.RenderOOB(dialogFor(prev.Dialog), false, h.closedContent(ws, prev.Dialog)...)
}

// closedContent is the neutral content of a dialog, or nil for an unknown
// dialog.
func (h *Handler) closedContent(ws *Workspace, id modal.ID) []g.Node {
	forms := h.ctrl.Forms()
	switch id {
	case DialogProfile:
		return formContent(h.ctrl.emptyView(ws, forms.Profile))
	case DialogAvatar:
		return formContent(h.ctrl.emptyView(ws, forms.Avatar))
	case DialogNewCard:
		return formContent(h.ctrl.emptyView(ws, forms.NewCard))
	case DialogDelete:
		return formContent(h.ctrl.emptyView(ws, forms.Delete))
	case DialogImage:
		return imageContent(cards.Picture{})
	case DialogInfo:
		return statsContent(Stats{}, "", false)
	}
	return nil
}

func formValues(c echo.Context, def formDef) map[string]string {
	values := make(map[string]string, len(def.Fields))
	for _, f := range def.Fields {
		values[f.Name] = c.FormValue(f.Name)
	}
	return values
}
