package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MentorshipService/internal/commands"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sweeper"
)

func memoryConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
driver = "memory"

[logs]
level = "error"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := commands.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSweepCommandsOnEmptyStore(t *testing.T) {
	cfg := memoryConfig(t)

	for _, sweep := range []string{"expired", "feedback"} {
		t.Run(sweep, func(t *testing.T) {
			out, err := run(t, "sweep", sweep, "--config", cfg)
			require.NoError(t, err)

			var result sweeper.SweepResult
			require.NoError(t, json.Unmarshal([]byte(out), &result), out)
			assert.Equal(t, sweeper.SweepResult{}, result)
		})
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate", "up", "--config", memoryConfig(t))
	assert.ErrorIs(t, err, commands.ErrMigrationsUnsupported)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "sweep", "expired", "--config", filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
