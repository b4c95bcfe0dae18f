package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STATE_DRIVER", "")
	t.Setenv("BOT_PROVIDER", "")
	t.Setenv("BOT_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StateDriverMemory, cfg.State.Driver)
	assert.Equal(t, DefaultStateKey, cfg.State.Key)
	assert.Equal(t, BotProviderGemini, cfg.Bot.Provider)
	assert.Empty(t, cfg.Bot.APIKey)
	assert.Equal(t, time.Second, cfg.Bot.GreetingDelay())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadBotKeyFallbacks(t *testing.T) {
	t.Run("gemini key", func(t *testing.T) {
		t.Setenv("BOT_PROVIDER", "gemini")
		t.Setenv("BOT_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "g-key", cfg.Bot.APIKey)
	})

	t.Run("openai key", func(t *testing.T) {
		t.Setenv("BOT_PROVIDER", "OpenAI")
		t.Setenv("BOT_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "o-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BotProviderOpenAI, cfg.Bot.Provider)
		assert.Equal(t, "o-key", cfg.Bot.APIKey)
	})

	t.Run("explicit key wins", func(t *testing.T) {
		t.Setenv("BOT_PROVIDER", "gemini")
		t.Setenv("BOT_API_KEY", "explicit")
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "explicit", cfg.Bot.APIKey)
	})
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STATE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STATE_DRIVER", "memory")
	t.Setenv("BOT_PROVIDER", "anthropic")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadPostgresDriverNeedsDSN(t *testing.T) {
	t.Setenv("BOT_PROVIDER", "")
	t.Setenv("STATE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_DSN")

	t.Setenv("POSTGRES_DSN", "postgres://localhost/krux")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StateDriverPostgres, cfg.State.Driver)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, time.Duration(0), BotConfig{GreetingDelayMilli: 0}.GreetingDelay())
	assert.Equal(t, 250*time.Millisecond, BotConfig{GreetingDelayMilli: 250}.GreetingDelay())
	assert.Equal(t, time.Hour, AuthConfig{}.AccessTokenTTL())
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
}
