// Package gallery is the top-level orchestration of the Mesto page. It owns
// the current user, drives the dialog forms through their submission states
// and turns remote results into the minimal set of page patches.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/cards"
	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/internal/modal"
	"github.com/nfrund/mesto/internal/pubsub"
	"github.com/nfrund/mesto/internal/validation"
)

// ErrNoPendingDelete is returned when a delete is confirmed without a target.
var ErrNoPendingDelete = errors.New("no card selected for deletion")

// Deps are the collaborators of the Controller.
type Deps struct {
	Client    api.Client
	Engine    *validation.Engine
	Publisher pubsub.Publisher
	Reporter  ErrorReporter
}

// Controller is constructed once at startup and shared by all sessions.
type Controller struct {
	client    api.Client
	forms     *Forms
	publisher pubsub.Publisher
	reporter  ErrorReporter

	mu     sync.Mutex
	user   domain.User
	loaded bool
}

// NewController wires the controller and configures the dialog forms.
func NewController(d Deps) (*Controller, error) {
	if d.Client == nil {
		return nil, errors.New("gallery: remote client is required")
	}
	engine := d.Engine
	if engine == nil {
		engine = validation.NewEngine()
	}
	forms, err := newForms(engine)
	if err != nil {
		return nil, err
	}
	reporter := d.Reporter
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &Controller{
		client:    d.Client,
		forms:     forms,
		publisher: d.Publisher,
		reporter:  reporter,
	}, nil
}

// Forms returns the configured dialog forms.
func (c *Controller) Forms() *Forms { return c.forms }

// FormView is everything needed to render one dialog form.
type FormView struct {
	Def    formDef
	Values map[string]string
	State  validation.State
	Label  string
	// Error is the inline message of a failed submission.
	Error string
	// Locked disables the submit control whatever the field state, for a
	// form that cannot be submitted again until it is reopened.
	Locked bool
}

// Outcome is the settled result of one form submission.
type Outcome[T any] struct {
	View   FormView
	Result T
	Err    error
}

// OK reports whether the submission succeeded.
func (o Outcome[T]) OK() bool { return o.Err == nil }

// Load fetches the current user and the card list concurrently.
func (c *Controller) Load(ctx context.Context) (domain.User, []domain.Card, error) {
	var (
		user domain.User
		list []domain.Card
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := c.client.GetCurrentUser(gctx)
		if err != nil {
			return fmt.Errorf("get current user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		l, err := c.client.GetCardList(gctx)
		if err != nil {
			return fmt.Errorf("get card list: %w", err)
		}
		list = l
		return nil
	})
	if err := g.Wait(); err != nil {
		c.reporter.Report(ctx, "load", err)
		return domain.User{}, nil, err
	}
	c.remember(user)
	return user, list, nil
}

// CurrentUser returns the cached profile, fetching it on first use.
func (c *Controller) CurrentUser(ctx context.Context) (domain.User, error) {
	c.mu.Lock()
	if c.loaded {
		u := c.user
		c.mu.Unlock()
		return u, nil
	}
	c.mu.Unlock()

	u, err := c.client.GetCurrentUser(ctx)
	if err != nil {
		c.reporter.Report(ctx, "current-user", err)
		return domain.User{}, fmt.Errorf("get current user: %w", err)
	}
	c.remember(u)
	return u, nil
}

// CurrentUserID returns the id of the current user. A failed lookup yields
// an empty id, which owns and likes nothing.
func (c *Controller) CurrentUserID(ctx context.Context) string {
	u, err := c.CurrentUser(ctx)
	if err != nil {
		return ""
	}
	return u.ID
}

func (c *Controller) remember(u domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = u
	c.loaded = true
}

// Open makes id the active dialog of ws. A force-closed delete confirmation
// drops its pending target.
func (c *Controller) Open(ws *Workspace, id modal.ID, payload any) *modal.Session {
	_, prev := ws.Modal.Open(id, payload)
	if prev != nil && prev.Dialog == DialogDelete {
		ws.ClearPendingDelete()
	}
	return prev
}

// Close closes id if it is the active dialog of ws.
func (c *Controller) Close(ws *Workspace, id modal.ID) bool {
	_, ok := ws.Modal.Close(id)
	if id == DialogDelete {
		ws.ClearPendingDelete()
	}
	return ok
}

// OpenProfile opens the profile dialog prefilled with the current profile
// and without stale errors. When the profile cannot be fetched the dialog
// opens empty with an inline error.
func (c *Controller) OpenProfile(ctx context.Context, ws *Workspace) (FormView, *modal.Session) {
	prev := c.Open(ws, DialogProfile, nil)
	u, err := c.CurrentUser(ctx)
	if err != nil {
		view := c.clearedView(ws, c.forms.Profile, nil)
		view.Error = failureMessage(err)
		return view, prev
	}
	values := map[string]string{FieldName: u.Name, FieldDescription: u.About}
	return c.clearedView(ws, c.forms.Profile, values), prev
}

// OpenAvatar opens the avatar dialog with a cleared form.
func (c *Controller) OpenAvatar(ws *Workspace) (FormView, *modal.Session) {
	prev := c.Open(ws, DialogAvatar, nil)
	return c.clearedView(ws, c.forms.Avatar, nil), prev
}

// OpenNewCard opens the add-card dialog with a reset, cleared form.
func (c *Controller) OpenNewCard(ws *Workspace) (FormView, *modal.Session) {
	prev := c.Open(ws, DialogNewCard, nil)
	return c.clearedView(ws, c.forms.NewCard, nil), prev
}

// OpenPreview opens the image dialog for p.
func (c *Controller) OpenPreview(ws *Workspace, p cards.Picture) *modal.Session {
	return c.Open(ws, DialogImage, p)
}

// RequestDelete records the delete target and opens the confirmation. The
// card is not deleted until ConfirmDelete.
func (c *Controller) RequestDelete(ws *Workspace, target PendingDelete) (FormView, *modal.Session) {
	prev := c.Open(ws, DialogDelete, target)
	ws.SetPendingDelete(target)
	return c.clearedView(ws, c.forms.Delete, nil), prev
}

// OpenStats fetches a fresh card list and opens the statistics dialog.
func (c *Controller) OpenStats(ctx context.Context, ws *Workspace) (Stats, *modal.Session, error) {
	list, err := c.client.GetCardList(ctx)
	prev := c.Open(ws, DialogInfo, nil)
	if err != nil {
		c.reporter.Report(ctx, "stats", err)
		return Stats{}, prev, fmt.Errorf("get card list: %w", err)
	}
	return ComputeStats(list), prev, nil
}

// revalidate evaluates values for the form, as on every input event.
func (c *Controller) revalidate(ws *Workspace, def formDef, values map[string]string) FormView {
	return FormView{
		Def:    def,
		Values: values,
		State:  def.form.Revalidate(values),
		Label:  ws.ButtonLabel(def),
	}
}

// emptyView is the neutral view of a form with no values.
func (c *Controller) emptyView(ws *Workspace, def formDef) FormView {
	return c.clearedView(ws, def, nil)
}

func (c *Controller) clearedView(ws *Workspace, def formDef, values map[string]string) FormView {
	if values == nil {
		values = map[string]string{}
	}
	return FormView{
		Def:    def,
		Values: values,
		State:  def.form.Clear(values),
		Label:  ws.ButtonLabel(def),
	}
}

// SubmitProfile saves the profile text.
func (c *Controller) SubmitProfile(ctx context.Context, ws *Workspace, values map[string]string) Outcome[domain.User] {
	def := c.forms.Profile
	out := runSubmission(ctx, c, ws, def, values, func(ctx context.Context) (domain.User, error) {
		return c.client.UpdateUserProfile(ctx, domain.ProfileUpdate{
			Name:  values[FieldName],
			About: values[FieldDescription],
		})
	})
	if out.OK() {
		c.remember(out.Result)
		out.View = c.clearedView(ws, def, map[string]string{FieldName: out.Result.Name, FieldDescription: out.Result.About})
		publish(ctx, c.publisher, ProfileUpdated, out.Result.ID, profilePayload(out.Result))
	}
	return out
}

// SubmitAvatar saves the avatar URL.
func (c *Controller) SubmitAvatar(ctx context.Context, ws *Workspace, values map[string]string) Outcome[domain.User] {
	def := c.forms.Avatar
	out := runSubmission(ctx, c, ws, def, values, func(ctx context.Context) (domain.User, error) {
		return c.client.UpdateUserAvatar(ctx, values[FieldAvatar])
	})
	if out.OK() {
		c.remember(out.Result)
		out.View = c.clearedView(ws, def, nil)
		publish(ctx, c.publisher, ProfileUpdated, out.Result.ID, profilePayload(out.Result))
	}
	return out
}

// SubmitNewCard creates a card.
func (c *Controller) SubmitNewCard(ctx context.Context, ws *Workspace, values map[string]string) Outcome[domain.Card] {
	def := c.forms.NewCard
	out := runSubmission(ctx, c, ws, def, values, func(ctx context.Context) (domain.Card, error) {
		return c.client.CreateCard(ctx, domain.NewCard{
			Name: values[FieldPlaceName],
			Link: values[FieldLink],
		})
	})
	if out.OK() {
		out.View = c.clearedView(ws, def, nil)
		publish(ctx, c.publisher, CardCreated, out.Result.Owner.ID, CardPayload{CardID: out.Result.ID, Name: out.Result.Name})
	}
	return out
}

// reopenDeleteHint follows every delete error: the target is gone, so the
// confirmation only works again once it is reopened from a card.
const reopenDeleteHint = "Закройте окно и нажмите на корзину карточки ещё раз."

// ConfirmDelete deletes the recorded pending target and nothing else. The
// target is forgotten once the request settles, whatever the outcome.
func (c *Controller) ConfirmDelete(ctx context.Context, ws *Workspace) Outcome[PendingDelete] {
	def := c.forms.Delete
	target, ok := ws.PendingDelete()
	if !ok {
		view := c.clearedView(ws, def, nil)
		view.Error = "Карточка для удаления не выбрана. " + reopenDeleteHint
		view.Locked = true
		return Outcome[PendingDelete]{View: view, Err: ErrNoPendingDelete}
	}

	out := runSubmission(ctx, c, ws, def, map[string]string{}, func(ctx context.Context) (PendingDelete, error) {
		return target, c.client.DeleteCard(ctx, target.CardID)
	})
	if !errors.Is(out.Err, ErrSubmissionInFlight) {
		ws.ClearPendingDelete()
		if !out.OK() {
			out.View.Error += " " + reopenDeleteHint
			out.View.Locked = true
		}
	}
	if out.OK() {
		publish(ctx, c.publisher, CardDeleted, c.CurrentUserID(ctx), CardPayload{CardID: target.CardID})
	}
	return out
}

// ToggleLike flips the like of the current user. liked is the state the
// control showed when clicked. The returned card carries the authoritative
// liker set.
func (c *Controller) ToggleLike(ctx context.Context, cardID string, liked bool) (domain.Card, bool, error) {
	card, err := c.client.SetLikeStatus(ctx, cardID, !liked)
	if err != nil {
		c.reporter.Report(ctx, "like", err)
		return domain.Card{}, liked, fmt.Errorf("set like status of %s: %w", cardID, err)
	}
	userID := c.CurrentUserID(ctx)
	nowLiked := card.LikedBy(userID)
	publish(ctx, c.publisher, CardLiked, userID, LikePayload{CardID: card.ID, Liked: nowLiked, Likes: card.LikeCount()})
	return card, nowLiked, nil
}

// runSubmission moves one form through Idle, Submitting and back. Invalid
// values never reach call. The submit control shows the loading label from
// before call until it settles.
func runSubmission[T any](ctx context.Context, c *Controller, ws *Workspace, def formDef, values map[string]string, call func(context.Context) (T, error)) Outcome[T] {
	out := Outcome[T]{View: FormView{Def: def, Values: values}}

	state, err := def.form.Check(values)
	out.View.State = state
	if err != nil {
		out.Err = err
	} else {
		out.Result, out.Err = dispatch(ctx, c, ws, def, call)
	}

	out.View.Label = ws.ButtonLabel(def)
	switch {
	case out.Err == nil:
		ws.Modal.Close(def.Dialog)
	case errors.Is(out.Err, ErrSubmissionInFlight):
		out.View.Error = "Запрос уже отправлен, дождитесь ответа"
	case !errors.Is(out.Err, validation.ErrInvalid):
		out.View.Error = failureMessage(out.Err)
	}
	return out
}

func dispatch[T any](ctx context.Context, c *Controller, ws *Workspace, def formDef, call func(context.Context) (T, error)) (T, error) {
	var zero T
	settle, err := ws.button(def).begin()
	if err != nil {
		return zero, err
	}
	defer settle()

	res, err := call(ctx)
	if err != nil {
		c.reporter.Report(ctx, def.ID, err)
		return zero, err
	}
	return res, nil
}

func failureMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Не удалось выполнить запрос. Ошибка: %d", se.Status)
	}
	return "Не удалось выполнить запрос. Попробуйте ещё раз."
}

func profilePayload(u domain.User) ProfilePayload {
	return ProfilePayload{Name: u.Name, About: u.About, Avatar: u.Avatar}
}
