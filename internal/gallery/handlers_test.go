package gallery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mesto/internal/rendering"
)

// browser replays the session cookie like a real browser would.
type browser struct {
	t       *testing.T
	e       *echo.Echo
	client  *fakeClient
	ws      *Workspaces
	cookies []*http.Cookie
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	client := newFakeClient()
	ctrl, err := NewController(Deps{Client: client, Reporter: ReporterFunc(func(context.Context, string, error) {})})
	require.NoError(t, err)

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	workspaces := NewWorkspaces(time.Hour)
	NewHandler(ctrl, workspaces, rendering.NewUniversalRenderer()).Routes(e.Group(""))

	return &browser{t: t, e: e, client: client, ws: workspaces}
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.e.ServeHTTP(rec, req)
	if fresh := rec.Result().Cookies(); len(fresh) > 0 {
		b.cookies = fresh
	}
	return rec
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, target, form)
}

func TestHandler_Page(t *testing.T) {
	b := newBrowser(t)

	rec := b.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Жак-Ив Кусто")
	assert.Contains(t, body, `id="card-c1"`)
	assert.Contains(t, body, `id="card-c2"`)
	assert.Equal(t, 1, strings.Count(body, "card__control-button_type_delete"), "only own cards can be deleted")
	assert.NotContains(t, body, "popup_is-opened", "every dialog starts closed")
	assert.NotEmpty(t, b.cookies, "the workspace is bound to a session cookie")
}

func TestHandler_PageShowsLoadError(t *testing.T) {
	b := newBrowser(t)
	b.client.fail["user"] = true

	rec := b.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ошибка: 500")
}

func TestHandler_SessionKeepsWorkspace(t *testing.T) {
	b := newBrowser(t)

	b.do(http.MethodGet, "/", nil)
	b.post("/dialogs/edit/open", nil)
	b.post("/dialogs/new-card/open", nil)

	assert.Equal(t, 1, b.ws.Len())
}

func TestHandler_OpenAndCloseDialog(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/dialogs/edit/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="popup-edit"`)
	assert.Contains(t, body, "popup_is-opened")
	assert.Contains(t, body, `value="Жак-Ив Кусто"`)
	assert.Contains(t, body, "Сохранить")

	rec = b.post("/dialogs/edit/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "popup_is-opened")
}

func TestHandler_OpenDialogForceClosesPrevious(t *testing.T) {
	b := newBrowser(t)

	b.post("/dialogs/edit/open", nil)
	rec := b.post("/dialogs/new-card/open", nil)

	body := rec.Body.String()
	assert.Contains(t, body, `id="popup-new-card"`)
	assert.Contains(t, body, `id="popup-edit"`)
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Equal(t, 1, strings.Count(body, "popup_is-opened"))
}

func TestHandler_UnknownDialog(t *testing.T) {
	b := newBrowser(t)

	assert.Equal(t, http.StatusNotFound, b.post("/dialogs/nope/open", nil).Code)
	assert.Equal(t, http.StatusNotFound, b.post("/dialogs/nope/close", nil).Code)
	assert.Equal(t, http.StatusNotFound, b.post("/forms/nope/validate", nil).Code)
	assert.Equal(t, http.StatusNotFound, b.post("/forms/nope/submit", nil).Code)
}

func TestHandler_OpenPreview(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/dialogs/image/open", url.Values{"name": {"Архыз"}, "link": {"https://example.com/1.jpg"}})

	body := rec.Body.String()
	assert.Contains(t, body, `src="https://example.com/1.jpg"`)
	assert.Contains(t, body, `alt="Архыз"`)
	assert.Contains(t, body, "popup__caption")
}

func TestHandler_OpenStats(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/dialogs/info/open", nil)

	body := rec.Body.String()
	assert.Contains(t, body, "Статистика карточек")
	assert.Contains(t, body, "Другой")
	assert.Contains(t, body, "Байкал (2 лайков)")
}

func TestHandler_Validate(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/forms/new-place/validate", url.Values{FieldPlaceName: {"Э"}, FieldLink: {""}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="form-new-place-place-name-error" class="popup__error popup__error_visible" hx-swap-oob="true"`)
	assert.Contains(t, body, `id="form-new-place-submit" type="submit" class="popup__button popup__button_disabled" disabled hx-swap-oob="true"`)
	assert.Empty(t, b.client.callLog(), "validation never reaches the API")

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	classes := trigger[fieldsValidatedEvent]
	assert.Contains(t, classes["form-new-place-place-name"], "popup__input_type_error")
	assert.Contains(t, classes["form-new-place-link"], "popup__input_type_error")
}

// The user keeps typing while validation runs, so the answer must never
// carry inputs whose value could overwrite newer text.
func TestHandler_ValidateNeverReplacesInputs(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/forms/new-place/validate", url.Values{FieldPlaceName: {"Эл"}, FieldLink: {"https://example.com/e.jpg"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<input")
	assert.NotContains(t, body, "Эл")
	assert.NotContains(t, body, `id="form-new-place-fields"`)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	assert.Equal(t, "popup__input popup__input_type_card-name", trigger[fieldsValidatedEvent]["form-new-place-place-name"])
}

func TestHandler_SubmitProfilePatchesPage(t *testing.T) {
	b := newBrowser(t)
	b.post("/dialogs/edit/open", nil)

	rec := b.post("/forms/edit-profile/submit", url.Values{FieldName: {"Жак Кусто"}, FieldDescription: {"Капитан"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "popup_is-opened")
	assert.Contains(t, body, `<h1 id="profile-title" class="profile__title" hx-swap-oob="true">Жак Кусто</h1>`)
	assert.Contains(t, body, `id="profile-description"`)
	assert.Contains(t, body, "Капитан")
}

func TestHandler_SubmitFailureShowsInlineError(t *testing.T) {
	b := newBrowser(t)
	b.client.fail["create"] = true
	b.post("/dialogs/new-card/open", nil)

	rec := b.post("/forms/new-place/submit", url.Values{FieldPlaceName: {"Эльбрус"}, FieldLink: {"https://example.com/e.jpg"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "popup_is-opened")
	assert.Contains(t, body, "Не удалось выполнить запрос. Ошибка: 500")
	assert.Contains(t, body, `<span class="popup__button-label">Создать</span>`)
	assert.NotContains(t, body, "afterbegin")
}

func TestHandler_SubmitNewCardPrependsUnit(t *testing.T) {
	b := newBrowser(t)
	b.post("/dialogs/new-card/open", nil)

	rec := b.post("/forms/new-place/submit", url.Values{FieldPlaceName: {"Эльбрус"}, FieldLink: {"https://example.com/e.jpg"}})

	body := rec.Body.String()
	assert.Contains(t, body, `hx-swap-oob="afterbegin:#places-list"`)
	assert.Contains(t, body, `id="card-new1"`)
	assert.Contains(t, body, "card__control-button_type_delete", "own new card is deletable")
	assert.Contains(t, body, `<span id="card-new1-like-count" class="card__like-count">0</span>`)
}

func TestHandler_DeleteFlow(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/cards/c1/delete-request", url.Values{"unit": {"card-c1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Вы уверены?")
	assert.Empty(t, b.client.callLog(), "nothing is deleted before confirmation")

	rec = b.post("/forms/remove-card/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<li id="card-c1" hx-swap-oob="delete"></li>`)
	assert.Equal(t, []string{"delete:c1"}, deleteCalls(b.client.callLog()))

	rec = b.post("/forms/remove-card/submit", nil)
	assert.Contains(t, rec.Body.String(), "Карточка для удаления не выбрана")
	assert.Len(t, deleteCalls(b.client.callLog()), 1)
}

func TestHandler_DeleteFailureLocksConfirmation(t *testing.T) {
	b := newBrowser(t)
	b.client.fail["delete:c1"] = true
	b.post("/cards/c1/delete-request", url.Values{"unit": {"card-c1"}})

	rec := b.post("/forms/remove-card/submit", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "popup_is-opened")
	assert.Contains(t, body, "нажмите на корзину карточки ещё раз")
	assert.Contains(t, body, `class="popup__button popup__button_disabled" disabled`)
	assert.NotContains(t, body, `hx-swap-oob="delete"`)

	// Reopening from the card makes the confirmation usable again.
	delete(b.client.fail, "delete:c1")
	rec = b.post("/cards/c1/delete-request", url.Values{"unit": {"card-c1"}})
	assert.NotContains(t, rec.Body.String(), "popup__button_disabled")
	rec = b.post("/forms/remove-card/submit", nil)
	assert.Contains(t, rec.Body.String(), `<li id="card-c1" hx-swap-oob="delete"></li>`)
}

func TestHandler_Like(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/cards/c1/like", url.Values{"liked": {"false"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="card-c1-like"`)
	assert.Contains(t, body, "card__like-button_is-active")
	assert.Contains(t, body, `>2</span>`)
}

func TestHandler_LikeFailureLeavesControl(t *testing.T) {
	b := newBrowser(t)
	b.client.fail["like"] = true

	rec := b.post("/cards/c1/like", url.Values{"liked": {"false"}})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_LikeRejectsBadFlag(t *testing.T) {
	b := newBrowser(t)

	rec := b.post("/cards/c1/like", url.Values{"liked": {"maybe"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
