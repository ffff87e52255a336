package main

import (
	"context"
	"fmt"

	"github.com/danmuck/cigi/internal/config"
	"github.com/danmuck/cigi/internal/node"
	"github.com/danmuck/cigi/internal/observability"
	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type buildNode func(*session.Session, config.Config) node.Node

func hostCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Run the host frame loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRole(cmd.Context(), "host", *configPath, func(s *session.Session, cfg config.Config) node.Node {
				return node.NewHost(s, cfg.Host)
			})
		},
	}
}

func igCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ig",
		Short: "Run the image generator emulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRole(cmd.Context(), "ig", *configPath, func(s *session.Session, cfg config.Config) node.Node {
				return node.NewIG(s, cfg.IG)
			})
		},
	}
}

func runRole(ctx context.Context, role, path string, build buildNode) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("cigictl."+role, cfg.Log.Level)

	rec := observability.NewSessionRecorder(role)
	s, err := session.DialRetry(ctx, cfg.SessionConfig(rec), cfg.Session.DialAttempts)
	if err != nil {
		return fmt.Errorf("%s: %w", role, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn().Err(err).Msg("session close failed")
		}
	}()

	if cfg.Metrics.Address != "" {
		if err := observability.RegisterTransportStats(prometheus.DefaultRegisterer, role, s.Stats); err != nil {
			return fmt.Errorf("%s: register transport metrics: %w", role, err)
		}
		go func() {
			if err := observability.ServeMetrics(ctx, cfg.Metrics.Address, role, logger); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	n := build(s, cfg)
	logger.Info().Str("role", n.Role()).Msg("starting")
	if err := n.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", role, err)
	}
	logger.Info().Interface("stats", s.Stats()).Msg("stopped")
	return nil
}
