package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/cli/config"
	httpctrl "github.com/Caleb5Mathew/slack-search-proxy/pkg/controller/http"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/usecase"
	"github.com/Caleb5Mathew/slack-search-proxy/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var adminSecret string
	var configPath string
	var slackCfg config.Slack
	var sessionCfg config.Session
	var githubCfg config.GitHub
	var firestoreCfg config.Firestore
	var redisCfg config.Redis

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "admin-secret",
			Usage:       "Shared secret for the admin endpoints (disabled when empty)",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_ADMIN_SECRET"),
			Destination: &adminSecret,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to an optional TOML file with tunable defaults",
			Sources:     cli.EnvVars("SLACK_SEARCH_PROXY_CONFIG"),
			Destination: &configPath,
		},
	}

	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sessionCfg.Flags()...)
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, firestoreCfg.Flags()...)
	flags = append(flags, redisCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			defaults := &config.Defaults{}
			if configPath != "" {
				loaded, err := config.LoadDefaults(configPath)
				if err != nil {
					return goerr.Wrap(err, "failed to load config file", goerr.V("path", configPath))
				}
				defaults = loaded
			}

			slackGW, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack OAuth client")
			}

			codec, err := sessionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure session codec")
			}

			if defaults.Presence.RetentionDays > 0 {
				redisCfg.SetRetention(time.Duration(defaults.Presence.RetentionDays) * 24 * time.Hour)
			}
			redisStore, err := redisCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Redis presence store")
			}
			if redisStore != nil {
				defer func() {
					if err := redisStore.Close(); err != nil {
						logging.Default().Error("failed to close Redis connection", "error", err.Error())
					}
				}()
				logging.Default().Info("Redis presence store enabled", "redis", redisCfg)
			} else {
				logging.Default().Info("Redis not configured, presence records are in-memory only")
			}
			registry := usecase.NewPresenceRegistry(redisStore)

			ucOpts := []usecase.Option{
				usecase.WithSlack(slackGW),
				usecase.WithCodec(codec),
				usecase.WithPresence(registry),
				usecase.WithLimits(defaults.Search.Limit, defaults.Thread.Limit),
			}

			contentStore, err := githubCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure GitHub ledger")
			}
			if contentStore != nil {
				ucOpts = append(ucOpts, usecase.WithContentStore(contentStore))
				logging.Default().Info("GitHub usage ledger enabled", "github", githubCfg)
			} else {
				logging.Default().Info("GitHub ledger not configured, file-based usage tracking disabled")
			}

			usageStore, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Firestore usage store")
			}
			if usageStore != nil {
				defer func() {
					if err := usageStore.Close(); err != nil {
						logging.Default().Error("failed to close Firestore client", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithUsageStore(usageStore))
				logging.Default().Info("Firestore usage store enabled", "firestore", firestoreCfg)
			} else {
				logging.Default().Info("Firestore not configured, document-based usage tracking disabled")
			}

			uc := usecase.New(ucOpts...)

			var httpOpts []httpctrl.Options
			if adminSecret != "" {
				httpOpts = append(httpOpts, httpctrl.WithAdminSecret(adminSecret))
				logging.Default().Info("Admin endpoints enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
