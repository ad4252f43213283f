package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/internal/handlers"
)

func newAPIServer(t *testing.T) (*httptest.Server, *MemoryStore) {
	t.Helper()
	store := seededMemory(t)
	e := echo.New()
	e.Validator = handlers.NewValidator()
	NewHandler(store).Routes(e.Group("/v1/cohort"))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, store
}

func clientFor(t *testing.T, srv *httptest.Server, token string) *api.HTTPClient {
	t.Helper()
	c, err := api.NewHTTPClient(srv.URL+"/v1/cohort", token)
	require.NoError(t, err)
	return c
}

func TestAPI_ClientRoundTrip(t *testing.T) {
	srv, _ := newAPIServer(t)
	c := clientFor(t, srv, "demo-token")
	ctx := context.Background()

	me, err := c.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cousteau", me.ID)

	me, err = c.UpdateUserProfile(ctx, domain.ProfileUpdate{Name: "Жак Кусто", About: "Капитан"})
	require.NoError(t, err)
	assert.Equal(t, "Жак Кусто", me.Name)

	me, err = c.UpdateUserAvatar(ctx, "https://example.com/new.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new.png", me.Avatar)

	card, err := c.CreateCard(ctx, domain.NewCard{Name: "Эльбрус", Link: "https://example.com/e.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Жак Кусто", card.Owner.Name)

	list, err := c.GetCardList(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, card.ID, list[0].ID, "new card comes first")

	liked, err := c.SetLikeStatus(ctx, card.ID, true)
	require.NoError(t, err)
	assert.True(t, liked.LikedBy(me.ID))

	unliked, err := c.SetLikeStatus(ctx, card.ID, false)
	require.NoError(t, err)
	assert.Zero(t, unliked.LikeCount())

	require.NoError(t, c.DeleteCard(ctx, card.ID))
	list, err = c.GetCardList(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, card.ID, list[0].ID)
}

func TestAPI_Errors(t *testing.T) {
	srv, _ := newAPIServer(t)
	ctx := context.Background()

	_, err := clientFor(t, srv, "bad-token").GetCurrentUser(ctx)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.True(t, errors.Is(err, api.ErrRemoteOperation))

	c := clientFor(t, srv, "demo-token")

	err = c.DeleteCard(ctx, "arkhyz")
	assert.True(t, errors.Is(err, domain.ErrForbidden), "arkhyz belongs to another user")

	err = c.DeleteCard(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = c.SetLikeStatus(ctx, "missing", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = c.CreateCard(ctx, domain.NewCard{Name: "Э", Link: "not a url"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Body, "link: url")
}

func TestAPI_MissingTokenAndMalformedBody(t *testing.T) {
	srv, _ := newAPIServer(t)

	resp, err := http.Get(srv.URL + "/v1/cohort/cards")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/v1/cohort/users/me", strings.NewReader(`{"name":`))
	require.NoError(t, err)
	req.Header.Set(api.HeaderAuthorization, "demo-token")
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type failingStore struct{ *MemoryStore }

func (failingStore) Cards(context.Context) ([]domain.Card, error) {
	return nil, errors.New("disk on fire")
}

func TestAPI_InternalErrorsAreGeneric(t *testing.T) {
	e := echo.New()
	NewHandler(failingStore{seededMemory(t)}).Routes(e.Group(""))

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	req.Header.Set(api.HeaderAuthorization, "demo-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Contains(t, rec.Body.String(), "На сервере произошла ошибка")
}
