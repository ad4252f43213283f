package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mesto/internal/backend"
	"github.com/nfrund/mesto/internal/handlers"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	store := backend.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), backend.DemoSeed()))

	e := echo.New()
	e.Validator = handlers.NewValidator()
	backend.NewHandler(store).Routes(e.Group(""))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

// run executes the root command and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	apiURL, apiToken, apiTimeout, outputFormat, cardsOwner = "", "", 0, "table", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func connection(srv *httptest.Server, token string) []string {
	return []string{"--api-url", srv.URL, "--token", token, "--timeout", time.Second.String()}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mesto-cli v"+version+"\n", out)
}

func TestCardsTable(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, append(connection(srv, "demo-token"), "cards")...)
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Архыз")
	assert.Contains(t, out, "Холмогорский район")
	assert.Less(t, bytes.Index([]byte(out), []byte("arkhyz")), bytes.Index([]byte(out), []byte("baikal")),
		"newest card is listed first")
}

func TestCardsJSONWithOwnerFilter(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, append(connection(srv, "demo-token"), "cards", "--owner", "cousteau", "--format", "json")...)
	require.NoError(t, err)

	var body struct {
		Cards []cardDisplay `json:"cards"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "chelyabinsk", body.Cards[0].ID)
	assert.Equal(t, "kamchatka", body.Cards[1].ID)
}

func TestStatsJSON(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, append(connection(srv, "demo-token"), "stats", "-f", "json")...)
	require.NoError(t, err)

	var body struct {
		Participants   int                 `json:"participants"`
		TotalLikes     int                 `json:"totalLikes"`
		TopContributor *contributorDisplay `json:"topContributor"`
		TopCards       []cardDisplay       `json:"topCards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 2, body.Participants)
	assert.Equal(t, 6, body.TotalLikes)
	require.NotNil(t, body.TopContributor)
	assert.Equal(t, "cousteau", body.TopContributor.ID, "a tie goes to the first liker met")
	require.Len(t, body.TopCards, 3)
	assert.Equal(t, "arkhyz", body.TopCards[0].ID)
	assert.Equal(t, "baikal", body.TopCards[1].ID)
}

func TestStatsTable(t *testing.T) {
	srv := newBackend(t)

	out, err := run(t, append(connection(srv, "demo-token"), "stats")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Участников:   2")
	assert.Contains(t, out, "Самый активный: Жак-Ив Кусто (3)")
	assert.Contains(t, out, "1. Архыз (2 лайков)")
}

func TestRemoteErrorsFailTheCommand(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, append(connection(srv, "bad-token"), "stats")...)
	assert.ErrorContains(t, err, "401")
}

func TestUnknownFormat(t *testing.T) {
	srv := newBackend(t)

	_, err := run(t, append(connection(srv, "demo-token"), "cards", "--format", "yaml")...)
	assert.ErrorContains(t, err, `unknown format "yaml"`)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "Байкал", truncateString("Байкал", 10))
	assert.Equal(t, "Холмог...", truncateString("Холмогорский район", 9))
	assert.Equal(t, "...", truncateString("Камчатка", 2))
}
