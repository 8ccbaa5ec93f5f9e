package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/internal/journal"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

// newTestCLI returns a cli wired to an in-memory journal.
func newTestCLI(t *testing.T) *cli {
	t.Helper()
	j, err := journal.Open(context.Background(), memory.New())
	require.NoError(t, err)
	return &cli{ledger: service.NewLedgerService(j)}
}

func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(c)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, c *cli, args ...string) string {
	t.Helper()
	out, err := run(t, c, args...)
	require.NoError(t, err, "splitledger %s", strings.Join(args, " "))
	return out
}

func TestParticipantCommands(t *testing.T) {
	c := newTestCLI(t)

	out := mustRun(t, c, "participant", "list")
	assert.Contains(t, out, "No participants yet!")

	out = mustRun(t, c, "participant", "add", "Alice", "Bob")
	assert.Contains(t, out, "Added participant Alice")
	assert.Contains(t, out, "Added participant Bob")

	_, err := run(t, c, "participant", "add", "Alice")
	require.Error(t, err)
	assert.Contains(t, errorMessage(err), "already exists")

	out = mustRun(t, c, "participant", "list")
	assert.Contains(t, out, "NAME")
	assert.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Bob"))
}

func TestBalancesScenario(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "participant", "add", "A", "B", "C")

	out := mustRun(t, c, "balances")
	assert.Contains(t, out, "All settled up! No outstanding balances.")

	mustRun(t, c, "expense", "add", "-d", "Dinner", "-a", "90", "-p", "A")
	mustRun(t, c, "expense", "add", "-d", "Taxi", "-a", "30", "-p", "B", "--participants", "A,B")

	out = mustRun(t, c, "balances")
	assert.Contains(t, out, "B owes A: $15.00")
	assert.Contains(t, out, "C owes A: $30.00")
	assert.Contains(t, out, "A: Gets back $45.00")
	assert.Contains(t, out, "B: Owes $15.00")
	assert.Contains(t, out, "C: Owes $30.00")

	out = mustRun(t, c, "settle", "--from", "B", "--to", "A", "--amount", "15")
	assert.Contains(t, out, "Payment recorded: B paid A $15.00")

	mustRun(t, c, "settle", "--from", "C", "--to", "A", "--amount", "30", "--note", "cash")
	out = mustRun(t, c, "balances")
	assert.Contains(t, out, "All settled up!")

	out = mustRun(t, c, "settlements")
	assert.Contains(t, out, "cash")
}

func TestExpenseAdd_SplitTypes(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "participant", "add", "Alice", "Bob")

	out := mustRun(t, c, "expense", "add", "-d", "Hotel", "-a", "200", "-p", "Alice",
		"-s", "percentage", "--value", "Alice=25,Bob=75")
	assert.Contains(t, out, "Expense #1 added")
	assert.Contains(t, out, "Bob: $150.00")

	_, err := run(t, c, "expense", "add", "-a", "100.00", "-p", "Alice",
		"-s", "exact", "--value", "Alice=50,Bob=49.99")
	require.Error(t, err)
	assert.Contains(t, errorMessage(err), "exact amounts add up to 99.99")

	_, err = run(t, c, "expense", "add", "-a", "100", "-p", "Alice",
		"-s", "percentage", "--value", "Alice=60,Bob=41")
	require.Error(t, err)

	_, err = run(t, c, "expense", "add", "-a", "ten", "-p", "Alice")
	assert.ErrorContains(t, err, "invalid amount")

	out = mustRun(t, c, "expense", "list")
	assert.Contains(t, out, "#1 - Hotel")
	assert.Contains(t, out, "Split (percentage):")
	assert.NotContains(t, out, "#2")
}

func TestExpenseAdd_Preview(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "participant", "add", "A", "B", "C")

	out := mustRun(t, c, "expense", "add", "-a", "90", "-p", "A", "--preview")
	assert.Contains(t, out, "Preview (equal split, nothing recorded):")
	assert.Contains(t, out, "B: $30.00")

	out = mustRun(t, c, "expense", "list")
	assert.Contains(t, out, "No expenses recorded yet!")
}

func TestOutputFormats(t *testing.T) {
	c := newTestCLI(t)
	mustRun(t, c, "participant", "add", "A", "B")
	mustRun(t, c, "expense", "add", "-d", "Lunch", "-a", "100", "-p", "A")

	t.Run("json", func(t *testing.T) {
		out := mustRun(t, c, "balances", "-o", "json")
		var resp ledgerv1.GetBalancesResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		require.Len(t, resp.Debts, 1)
		assert.Equal(t, "B", resp.Debts[0].From)
		assert.Equal(t, "50", resp.Debts[0].Amount.String())
	})

	t.Run("yaml", func(t *testing.T) {
		out := mustRun(t, c, "expense", "list", "-o", "yaml")
		var expenses []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &expenses))
		require.Len(t, expenses, 1)
		assert.Equal(t, "Lunch", expenses[0]["description"])
		assert.Equal(t, "A", expenses[0]["paid_by"])
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := run(t, c, "balances", "-o", "xml")
		assert.ErrorContains(t, err, "unsupported output format")
	})
}

func TestRemoteServer(t *testing.T) {
	j, err := journal.Open(context.Background(), memory.New())
	require.NoError(t, err)
	path, handler := ledgerv1.NewLedgerServiceHandler(service.NewLedgerService(j))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	c := &cli{}
	t.Setenv("SPLITLEDGER_STORE", "memory")
	mustRun(t, c, "--server", server.URL, "participant", "add", "Alice", "Bob")
	require.Len(t, j.Participants(), 2)

	_, err = run(t, c, "--server", server.URL, "settle", "--from", "Alice", "--to", "Zed", "--amount", "5")
	require.Error(t, err)
	assert.Equal(t, "receiver 'Zed' not found", errorMessage(err))
}
