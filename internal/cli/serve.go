package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/config"
	"github.com/matzehuels/infinicanvas/pkg/server"
	"github.com/matzehuels/infinicanvas/pkg/session"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		sessionTTL time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host canvas sessions over HTTP",
		Long: `Host canvas sessions over HTTP.

Clients create a session, forward wheel and pointer events to it and fetch
rendered frames. Sessions live in memory, or in Redis when the cache
backend is redis, and expire after --session-ttl without activity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}
			if !cmd.Flags().Changed("session-ttl") {
				sessionTTL = cfg.Server.SessionTTL.Duration
			}

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			sessions := session.NewManager(store, sessionTTL)
			defer sessions.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			frameOpts := cfg.FrameOptions()
			srv := server.New(sessions, runner, server.Options{
				Addr:            addr,
				Width:           cfg.Canvas.Width,
				Height:          cfg.Canvas.Height,
				Avatar:          cfg.Scene.Avatar,
				Frame:           &frameOpts,
				Initial:         cfg.Snapshot(),
				ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
			}, c.Logger)

			printSuccess(cmd.OutOrStdout(), "Serving on %s", StyleHighlight.Render(addr))
			printDetail(cmd.OutOrStdout(), "Sessions expire after %s", sessions.TTL())
			printNextStep(cmd.OutOrStdout(), "Create a session", fmt.Sprintf("curl -X POST %s/sessions", baseURL(addr)))

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "idle time before a session expires (default from config, 1h)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the frame cache")

	return cmd
}

// newSessionStore returns a Redis-backed store when the cache backend is
// redis, otherwise an in-memory store.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	cfg := c.Config.Cache
	if cfg.Backend != config.CacheRedis {
		return session.NewMemoryStore(), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: cfg.RedisURL, Prefix: cfg.Prefix})
	if err != nil {
		return nil, err
	}
	return session.NewCacheStore(rc, nil), nil
}

// baseURL turns a listen address into a URL for display.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
