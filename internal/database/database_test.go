package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envSettings struct{ url, ns, db, user, pass string }

func (s envSettings) GetDBURL() string  { return s.url }
func (s envSettings) GetDBNs() string   { return s.ns }
func (s envSettings) GetDBDb() string   { return s.db }
func (s envSettings) GetDBUser() string { return s.user }
func (s envSettings) GetDBPass() string { return s.pass }

// surrealFromEnv returns connection settings for the integration tests,
// skipping the test when no database is configured.
func surrealFromEnv(t *testing.T) envSettings {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := envSettings{
		url:  os.Getenv("SURREAL_URL"),
		ns:   os.Getenv("SURREAL_NS"),
		db:   os.Getenv("SURREAL_DB"),
		user: os.Getenv("SURREAL_USER"),
		pass: os.Getenv("SURREAL_PASS"),
	}
	if s.url == "" {
		t.Skip("SURREAL_URL not set")
	}
	return s
}

func TestDBError(t *testing.T) {
	err := NewDBError(ErrNotFound, "select card").WithQuery("SELECT * FROM card")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "select card")
	assert.Contains(t, err.Error(), "Query: SELECT * FROM card")
	assert.Contains(t, err.Error(), ErrNotFound.Error())
}

func TestHasLimitClause(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM card", false},
		{"SELECT * FROM card LIMIT 3", true},
		{"select * from card limit 3", true},
		{"SELECT * FROM unlimited", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, hasLimitClause(tt.query))
		})
	}
}

func TestRedactDBURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", redactDBURL("ws://root:secret@localhost:8000/rpc"))
	assert.Equal(t, "ws://localhost:8000/rpc", redactDBURL("ws://localhost:8000/rpc"))
}

func TestConnection_DBBeforeConnect(t *testing.T) {
	c := NewConnection(envSettings{url: "ws://localhost:1/rpc"})

	_, err := c.DB()

	assert.True(t, errors.Is(err, ErrNotConnected))
	assert.False(t, c.IsHealthy())
	assert.NoError(t, c.Close(context.Background()))
	assert.NoError(t, c.Close(context.Background()), "close is idempotent")
}

func TestNewDB(t *testing.T) {
	s := surrealFromEnv(t)
	ctx := context.Background()

	db, err := NewDB(ctx, s)
	require.NoError(t, err)
	defer db.Close(ctx)

	_, err = db.Version(ctx)
	assert.NoError(t, err)

	bad := s
	bad.pass = "wrongpassword"
	_, err = NewDB(ctx, bad)
	assert.Error(t, err)
}

func TestQueryHelpers(t *testing.T) {
	s := surrealFromEnv(t)
	ctx := context.Background()

	c := NewConnection(s)
	require.NoError(t, c.Connect(ctx))
	defer c.Close(ctx)
	db, err := c.DB()
	require.NoError(t, err)

	type row struct {
		Name string `json:"name"`
	}
	t.Cleanup(func() { _ = Execute(ctx, db, "DELETE scratch_row", nil) })

	require.NoError(t, Execute(ctx, db, "CREATE scratch_row SET name = $name", map[string]any{"name": "a"}))
	require.NoError(t, Execute(ctx, db, "CREATE scratch_row SET name = $name", map[string]any{"name": "b"}))

	rows, err := Query[row](ctx, db, "SELECT name FROM scratch_row ORDER BY name", nil)
	require.NoError(t, err)
	assert.Equal(t, []row{{Name: "a"}, {Name: "b"}}, rows)

	one, err := QueryOne[row](ctx, db, "SELECT name FROM scratch_row WHERE name = $name", map[string]any{"name": "b"})
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "b", one.Name)

	none, err := QueryOne[row](ctx, db, "SELECT name FROM scratch_row WHERE name = 'zzz'", nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
