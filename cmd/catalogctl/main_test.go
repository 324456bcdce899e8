package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{{"migrate"}, {"import"}, {"admin", "create"}, {"console"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func writeEnv(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("POSTGRES_HOST=localhost\nPOSTGRES_DB=toolshelf\n"), 0o600))
	return path
}

// Positional arguments are checked before the configuration is loaded, required flags after.
func TestArgumentValidation(t *testing.T) {
	env := writeEnv(t)

	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "Import Needs A File", args: []string{"import"}, wantErr: "accepts 1 arg(s), received 0"},
		{name: "Migrate Takes No Args", args: []string{"migrate", "extra"}, wantErr: `unknown command "extra"`},
		{name: "Admin Create Needs Username", args: []string{"admin", "create", "--email", "a@example.com"}, wantErr: `required flag(s) "username" not set`},
		{name: "Console Needs Login", args: []string{"console"}, wantErr: `required flag(s) "login" not set`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--env", env}, tc.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMissingConfiguration(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, err := execute(t, "--env", missing, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration from "+missing)
}

func TestQuietLogger(t *testing.T) {
	c := &cli{}

	logger, closer, err := c.quietLogger("")
	require.NoError(t, err)
	logger.Info("dropped")
	assert.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "console.log")
	logger, closer, err = c.quietLogger(path)
	require.NoError(t, err)
	logger.Info("kept")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=kept")
}
