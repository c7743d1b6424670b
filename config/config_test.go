package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Transport.Addr)
	assert.Equal(t, "/ws", cfg.Transport.Path)
	assert.False(t, cfg.Dispatch.Async)
	assert.Nil(t, cfg.Messages.AutoPropagate)
	assert.True(t, cfg.Metrics.Enabled)
}

// TestConfig_Validate 测试各子配置的校验
func TestConfig_Validate(t *testing.T) {
	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)

	t.Run("TransportPath", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Transport.Path = "ws"
		assert.Error(t, cfg.Validate())
	})

	t.Run("AsyncNeedsLimit", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Dispatch.Async = true
		cfg.Dispatch.MaxInFlight = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("EmptyAction", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Messages = cfg.Messages.WithActions("say", "")
		assert.Error(t, cfg.Validate())
	})

	t.Run("LogLevel", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Log.Level = "core/messages=debug,warn"
		assert.NoError(t, cfg.Validate())

		cfg.Log.Level = "core/messages=loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("PathConflict", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Metrics.Path = cfg.Transport.Path
		assert.ErrorIs(t, cfg.Validate(), ErrPathConflict)

		cfg.Metrics.Enabled = false
		assert.NoError(t, cfg.Validate())
	})
}

func TestMessagesConfig_With(t *testing.T) {
	base := DefaultMessagesConfig().WithActions("say")
	derived := base.WithActions("join").WithAutoPropagate(true)

	assert.Equal(t, []string{"say"}, base.Actions)
	assert.Nil(t, base.AutoPropagate)
	assert.Equal(t, []string{"say", "join"}, derived.Actions)
	require.NotNil(t, derived.AutoPropagate)
	assert.True(t, *derived.AutoPropagate)
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{
		"transport": {"addr": "127.0.0.1:9000", "write_timeout": "2s"},
		"dispatch": {"async": true, "max_in_flight": 8},
		"messages": {"actions": ["say", "join"], "auto_propagate": true}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Transport.Addr)
	assert.Equal(t, "/ws", cfg.Transport.Path, "unset fields keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Transport.WriteTimeout.Duration())
	assert.True(t, cfg.Dispatch.Async)
	assert.Equal(t, int64(8), cfg.Dispatch.MaxInFlight)
	assert.Equal(t, []string{"say", "join"}, cfg.Messages.Actions)
	require.NotNil(t, cfg.Messages.AutoPropagate)
	assert.True(t, *cfg.Messages.AutoPropagate)

	_, err = FromJSON([]byte(`{"unknown": 1}`))
	assert.Error(t, err)
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte(`
transport:
  addr: ":7000"
  write_timeout: 500ms
messages:
  actions: [say]
log:
  level: core/messages=debug,info
  file:
    path: /tmp/busmsg.log
`))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Transport.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.Transport.WriteTimeout.Duration())
	assert.Equal(t, []string{"say"}, cfg.Messages.Actions)
	assert.Nil(t, cfg.Messages.AutoPropagate)
	assert.Equal(t, "core/messages=debug,info", cfg.Log.Level)
	assert.Equal(t, "/tmp/busmsg.log", cfg.Log.File.Path)
	assert.Equal(t, 100, cfg.Log.File.MaxSizeMB, "unset fields keep defaults")

	_, err = FromYAML([]byte("transport:\n  bogus: 1\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("Empty", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, NewConfig().Transport, cfg.Transport)
	})

	t.Run("YAMLWithEnv", func(t *testing.T) {
		path := filepath.Join(dir, "busmsg.yml")
		require.NoError(t, os.WriteFile(path, []byte("transport:\n  addr: \":7000\"\n"), 0o644))

		t.Setenv("BUSMSG_ADDR", ":7100")
		t.Setenv("BUSMSG_DISPATCH_ASYNC", "true")
		t.Setenv("BUSMSG_ACTIONS", "say,join")
		t.Setenv("BUSMSG_WS_WRITE_TIMEOUT", "3s")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7100", cfg.Transport.Addr)
		assert.True(t, cfg.Dispatch.Async)
		assert.Equal(t, []string{"say", "join"}, cfg.Messages.Actions)
		assert.Equal(t, 3*time.Second, cfg.Transport.WriteTimeout.Duration())
	})

	t.Run("UnknownExtension", func(t *testing.T) {
		path := filepath.Join(dir, "busmsg.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("InvalidAfterEnv", func(t *testing.T) {
		t.Setenv("BUSMSG_WS_PATH", "ws")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, d.UnmarshalJSON([]byte(`1000`)))
	assert.Equal(t, time.Microsecond, d.Duration())

	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	out, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
	assert.Equal(t, "2s", Duration(2*time.Second).String())
}
