package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/equity"
)

// run executes the root command with args. Flag variables are package
// globals, so they are reset first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, dbPath, logLevel = "", "", ""
	chartJSON, tradeListOrg, exportOutput = false, false, ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradejournal version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tj.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")
	assert.FileExists(t, path)

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Configuration valid")
	assert.Contains(t, out, "Journal: sqlite")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("journal:\n  type: csv\n"), 0644))
	_, err = run(t, "config", "validate", "-f", bad)
	assert.Error(t, err)
}

func TestJournalWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "cli.db")

	out, err := run(t, "--db", db, "account", "add", "Challenge",
		"--id", "acct-1", "--balance", "10000", "--target", "10",
		"--daily", "0", "--max", "10", "--max-type", "static")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created account Challenge (acct-1)")

	out, err = run(t, "--db", db, "account", "show", "Challenge")
	require.NoError(t, err)
	assert.Contains(t, out, "Target: 11000.00 (10%)")
	assert.Contains(t, out, "Daily:  none")
	assert.Contains(t, out, "Max:    10% static")

	csvPath := filepath.Join(dir, "trades.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"date,time,symbol,outcome,pnl\n"+
			"2024-01-02,09:30,EURUSD,win,600\n"+
			"2024-01-03,10:00,GBPUSD,win,500\n"), 0644))

	out, err = run(t, "--db", db, "trade", "import", "Challenge", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 2 trades into Challenge")

	out, err = run(t, "--db", db, "trade", "list", "acct-1")
	require.NoError(t, err)
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "GBPUSD")

	out, err = run(t, "--db", db, "chart", "acct-1", "--json")
	require.NoError(t, err)
	var chart equity.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &chart))
	require.Len(t, chart.Series, 3)
	assert.Equal(t, 11100.0, chart.Final())

	out, err = run(t, "--db", db, "chart", "acct-1")
	require.NoError(t, err)
	assert.Contains(t, out, "MAX FLOOR")
	assert.Contains(t, out, "Profit target 10%")

	out, err = run(t, "--db", db, "objectives", "acct-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Status:  passed")

	out, err = run(t, "--db", db, "stats", "acct-1")
	require.NoError(t, err)
	assert.Contains(t, out, "* ACCOUNT: Challenge")

	out, err = run(t, "--db", db, "trade", "export", "acct-1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,date,time,symbol,direction,outcome,pnl,rr", lines[0])

	_, err = run(t, "--db", db, "chart", "nope")
	assert.Error(t, err)

	out, err = run(t, "--db", db, "account", "rm", "Challenge")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Removed account Challenge (acct-1)")

	out, err = run(t, "--db", db, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts.")
}
