package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/martijn/clientdb/internal/core/domain"
	"github.com/martijn/clientdb/internal/infrastructure/sqldb"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()

	log = slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqldb.New(sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)

	s := newServices(db)
	t.Cleanup(s.Close)
	return s
}

func TestRunDemo(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runDemo(ctx, s, &out))

	clients, err := s.ClientRepo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []*domain.Client{
		{ID: 2, FirstName: "Dwight", Surname: "Rute", Email: "d.rute@gmail.com", Phones: []string{"+1000012", "+10025647"}},
		{ID: 3, FirstName: "Jim", Surname: "Halpert", Email: "j.halpert@aol.com", Phones: []string{}},
		{ID: 4, FirstName: "Pam", Surname: "Beesly", Email: "p.beesly@gmail.com", Phones: []string{"+1089089872"}},
	}, clients)

	printed := out.String()
	require.Contains(t, printed, "== clients with phone +71828182: [4]")
	require.Contains(t, printed, "== client 1 deleted")
	require.Contains(t, printed, "No clients found")
}

func TestRunDemoStartsFromCleanSlate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, runDemo(ctx, s, io.Discard))

	// a second run rebuilds the schema, so identifiers repeat
	var out bytes.Buffer
	require.NoError(t, runDemo(ctx, s, &out))
	require.Contains(t, out.String(), "== clients with phone +71828182: [4]")
}

func TestPrintClients(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, s.Schema.Create(ctx))
	client := domain.NewClient("Jim", "Halpert", "j.halpert@aol.com")
	require.NoError(t, s.ClientRepo.Create(ctx, client))
	require.NoError(t, s.ClientRepo.AddPhone(ctx, client.ID, "+1000099"))

	var out bytes.Buffer
	require.NoError(t, printClients(ctx, s, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "CLIENT ID"))
	require.Contains(t, lines[1], "j.halpert@aol.com")
	require.Contains(t, lines[1], "+1000099")
}
