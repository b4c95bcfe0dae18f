package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/config"
)

// NewGenerator builds the configured backend. It returns nil, without error, when
// no API key is set so the responder falls back to the unavailable reply.
func NewGenerator(ctx context.Context, cfg config.BotConfig, logger *zap.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		logger.Warn("bot API key not set; replies will escalate to agents", zap.String("provider", cfg.Provider))
		return nil, nil
	}
	switch cfg.Provider {
	case config.BotProviderOpenAI:
		gen, err := NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		gen, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}
