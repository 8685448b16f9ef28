package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/taskbot/internal/guard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Store.Backend, cfg.Store.Backend)
	assert.Equal(t, def.Store.Driver, cfg.Store.Driver)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.UI.Markdown)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: http
  base_url: http://localhost:8000
  token: secret
  timeout: 3s
logging:
  level: debug
  file: /tmp/taskbot.log
guards:
  abusive: [Blorp]
  gratitude_reply: "Any time!"
ui:
  task_pane_width: 60
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Store.Backend)
	assert.Equal(t, "http://localhost:8000", cfg.Store.BaseURL)
	assert.Equal(t, "secret", cfg.Store.Token)
	assert.Equal(t, 3*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/taskbot.log", cfg.Logging.File)
	assert.Equal(t, 60, cfg.UI.TaskPaneWidth)
	assert.Equal(t, []string{"Blorp"}, cfg.Guards.Abusive)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: sqlite\n  path: from-file.db\nlogging:\n  level: warn\n")
	t.Setenv("TASKBOT_DB_PATH", "from-env.db")
	t.Setenv("TASKBOT_SQLITE_DRIVER", "sqlite")
	t.Setenv("TASKBOT_LOG_LEVEL", "DEBUG")
	t.Setenv("TASKBOT_MARKDOWN", "off")
	t.Setenv("TASKBOT_TASK_PANE_WIDTH", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Store.Path)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, Default().UI.TaskPaneWidth, cfg.UI.TaskPaneWidth, "invalid ints are ignored")
}

func TestEnvOverridesWithoutFile(t *testing.T) {
	t.Setenv("TASKBOT_STORE_BACKEND", "HTTP")
	t.Setenv("TASKBOT_API_URL", "https://tasks.example.com")
	t.Setenv("TASKBOT_API_TOKEN", "tok")
	t.Setenv("TASKBOT_API_TIMEOUT", "750ms")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Store.Backend)
	assert.Equal(t, "https://tasks.example.com", cfg.Store.BaseURL)
	assert.Equal(t, "tok", cfg.Store.Token)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.Timeout)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "store: [",
		"bad backend":   "store:\n  backend: redis\n",
		"http no url":   "store:\n  backend: http\n",
		"bad driver":    "store:\n  driver: postgres\n",
		"negative wait": "store:\n  timeout: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

func TestGuardsApply(t *testing.T) {
	g := GuardsConfig{Abusive: []string{" Blorp "}, CapabilityReply: "custom"}
	rules := g.Apply(guard.DefaultRules())

	v, ok := rules.Check("blorp it")
	require.True(t, ok)
	assert.Equal(t, guard.KindAbusive, v.Kind)
	assert.Equal(t, "custom", v.Reply)

	v, ok = rules.Check("thanks")
	require.True(t, ok)
	assert.Equal(t, guard.GratitudeReply, v.Reply)
}

func TestGetEnvBool(t *testing.T) {
	for raw, want := range map[string]bool{"yes": true, "ON": true, "0": false, "n": false} {
		t.Setenv("TASKBOT_TEST_BOOL", raw)
		got, ok := getEnvBool("TASKBOT_TEST_BOOL")
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	t.Setenv("TASKBOT_TEST_BOOL", "maybe")
	_, ok := getEnvBool("TASKBOT_TEST_BOOL")
	assert.False(t, ok)
}
