package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasai/zelig/internal/config"
	"github.com/atlasai/zelig/internal/conversation"
	"github.com/atlasai/zelig/internal/guide"
	"github.com/atlasai/zelig/internal/telemetry"
)

// session bundles everything one chat or ask run needs.
type session struct {
	cfg   config.Config
	tel   *telemetry.Telemetry
	guide guide.Guide
	conv  *conversation.Controller
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig reads .env, the config file and the flags, in that order of
// increasing precedence.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	flags.apply(cmd, &cfg)
	return cfg, nil
}

// openSession builds the telemetry, the instrumented guide and a fresh
// conversation controller. The caller must Close the session.
func openSession(ctx context.Context, cmd *cobra.Command, deps *Dependencies, flags *globalFlags) (*session, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}

	logDir, err := config.GetLogDir(cfg)
	if err != nil {
		return nil, err
	}

	tel, err := deps.InitTelemetry(ctx, telemetry.Options{
		LogDir:  logDir,
		Debug:   cfg.Debug,
		Enabled: cfg.Telemetry,
		Version: Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	g, err := deps.NewGuide(cfg)
	if err != nil {
		tel.Logger.Error("guide setup failed", "backend", cfg.Backend, "error", err)
		return nil, errors.Join(fmt.Errorf("failed to create %s guide: %w", cfg.Backend, err), tel.Close())
	}
	g = guide.Instrument(g, tel.Tracer, tel.Meter, tel.Logger)

	conv := conversation.New(g, conversation.WithLogger(tel.Logger))
	tel.Logger.Info("session started",
		"backend", guide.NameOf(g),
		"session_id", conv.SessionID(),
		"timeout", cfg.Timeout().String(),
	)

	return &session{cfg: cfg, tel: tel, guide: g, conv: conv}, nil
}

// Close flushes telemetry.
func (s *session) Close() error {
	s.tel.Logger.Info("session closed", "session_id", s.conv.SessionID(), "messages", s.conv.Len())
	return s.tel.Close()
}
