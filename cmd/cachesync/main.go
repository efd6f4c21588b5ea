// Command cachesync replays recorded gateway dispatch frames into a cache backend and
// optionally reports permissions computed from the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/config"
	"github.com/and161185/discord-cache/internal/pipeline"
	"github.com/and161185/discord-cache/internal/service"
	"github.com/and161185/discord-cache/internal/storage"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, opens the backend and replays the input.
func main() {
	// Flags
	in := flag.String("in", "-", "newline-delimited gateway frames (- for stdin)")
	envFile := flag.String("env", ".env", "optional dotenv file")
	checkGuild := flag.Uint64("check-guild", 0, "guild to report permissions for after replay")
	checkUser := flag.Uint64("check-user", 0, "user to report permissions for (default current user)")
	checkChannel := flag.Uint64("check-channel", 0, "channel to report permissions for")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("backend", string(cfg.Backend)),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open backend", zap.Error(err))
	}
	defer store.Close()

	r, closeInput, err := input(*in)
	if err != nil {
		logger.Fatal("open input", zap.Error(err))
	}
	defer closeInput()

	session := service.NewSession()
	syncer := service.NewSynchronizer(store.Backend, session, logger)
	applier := pipeline.Chain(syncer, pipeline.Recover(logger), pipeline.Logging(logger))
	opts := pipeline.Options{Buffer: cfg.DispatchBuffer, ContinueOnError: cfg.ContinueOnError}

	stats, err := pipeline.Replay(ctx, r, applier, logger, opts)
	logger.Info("replay finished",
		zap.Int64("applied", stats.Applied),
		zap.Int64("failed", stats.Failed),
		zap.Int64("partitions", stats.Partitions),
	)
	if err != nil {
		logger.Fatal("replay", zap.Error(err))
	}

	if *checkGuild == 0 && *checkChannel == 0 {
		return
	}
	res := service.NewResolver(store.Backend, session)
	perms, err := check(ctx, res, snowflake.ID(*checkUser), snowflake.ID(*checkGuild), snowflake.ID(*checkChannel))
	if err != nil {
		logger.Fatal("permission check", zap.Error(err))
	}
	fmt.Printf("%d %s\n", uint64(perms), perms)
}

func input(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// check resolves permissions for user (the current user when zero) in channel, or in
// guild when channel is zero.
func check(ctx context.Context, res *service.Resolver, user, guild, channel snowflake.ID) (discord.Permissions, error) {
	switch {
	case user == 0 && channel != 0:
		return res.CurrentUserChannel(ctx, channel)
	case user == 0:
		return res.CurrentUserGuild(ctx, guild)
	case channel != 0:
		return res.ChannelByID(ctx, user, channel)
	default:
		return res.Guild(ctx, user, guild)
	}
}
