// Command cachectl inspects a cache backend and manages its schema.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/config"
	"github.com/and161185/discord-cache/internal/migrate"
	"github.com/and161185/discord-cache/internal/pipeline"
	"github.com/and161185/discord-cache/internal/service"
	"github.com/and161185/discord-cache/internal/storage"
)

// ---- utils ----

func openInput(p string) (io.ReadCloser, error) {
	if p == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(p)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `cachectl
Usage:
  cachectl [-env file] [-replay file] <cmd> [args]

Commands:
  version
  migrate                                     (postgres: apply schema)
  reset                                       (postgres: drop schema)
  guild     -id <guild>
  channel   -id <channel>
  member    -guild <guild> -user <user>
  messages  -channel <channel>
  message   -id <message>
  dms       -user <user>
  perms     [-user <user>] [-guild <guild>] [-channel <channel>]

-replay applies recorded gateway frames before the command runs; with the
memory backend it is the only way to fill the cache.
`)
	os.Exit(2)
}

// replay applies the frames in path to the backend, filling session from READY.
func replay(ctx context.Context, path string, st *storage.Opened, session *service.Session, cfg config.Config, log *zap.Logger) error {
	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	syncer := service.NewSynchronizer(st.Backend, session, log)
	applier := pipeline.Chain(syncer, pipeline.Recover(log))
	stats, err := pipeline.Replay(ctx, in, applier, log, pipeline.Options{
		Buffer:          cfg.DispatchBuffer,
		ContinueOnError: cfg.ContinueOnError,
	})
	log.Info("replayed", zap.Int64("applied", stats.Applied), zap.Int64("failed", stats.Failed))
	return err
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the configured backend.
func main() {
	// global flags
	envFile := flag.String("env", ".env", "optional dotenv file")
	replayPath := flag.String("replay", "", "gateway frames to apply first (- for stdin)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	if cmd == "version" {
		fmt.Printf("cachectl %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fail(err)
	}
	log, err := cfg.Logger()
	if err != nil {
		fail(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "migrate", "reset":
		if cfg.Backend != config.BackendPostgres {
			fail(fmt.Errorf("%s needs the postgres backend, have %q", cmd, cfg.Backend))
		}
		run := migrate.Up
		if cmd == "reset" {
			run = migrate.Reset
		}
		if err := run(ctx, cfg.DatabaseDSN); err != nil {
			fail(err)
		}
		fmt.Println("ok")
		return
	}

	st, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fail(err)
	}
	defer st.Close()

	session := service.NewSession()
	if *replayPath != "" {
		if err := replay(ctx, *replayPath, st, session, cfg, log); err != nil {
			fail(err)
		}
	}

	out, err := runCommand(ctx, newCtl(st.Backend, session), cmd, flag.Args()[1:])
	if errors.Is(err, errUnknownCommand) {
		usage()
	}
	if err != nil {
		fail(err)
	}
	printJSON(os.Stdout, out)
}

var errUnknownCommand = errors.New("unknown command")

// runCommand parses the subcommand's flags and runs the query.
func runCommand(ctx context.Context, c *ctl, cmd string, args []string) (any, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	id := fs.Uint64("id", 0, "entity id")
	guild := fs.Uint64("guild", 0, "guild id")
	user := fs.Uint64("user", 0, "user id")
	channel := fs.Uint64("channel", 0, "channel id")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	need := func(name string, v uint64) error {
		if v == 0 {
			return fmt.Errorf("%s: need -%s", cmd, name)
		}
		return nil
	}

	switch cmd {
	case "guild":
		if err := need("id", *id); err != nil {
			return nil, err
		}
		return c.guild(ctx, snowflake.ID(*id))

	case "channel":
		if err := need("id", *id); err != nil {
			return nil, err
		}
		return c.channel(ctx, snowflake.ID(*id))

	case "member":
		if err := errors.Join(need("guild", *guild), need("user", *user)); err != nil {
			return nil, err
		}
		return c.member(ctx, snowflake.ID(*guild), snowflake.ID(*user))

	case "messages":
		if err := need("channel", *channel); err != nil {
			return nil, err
		}
		return c.messages(ctx, snowflake.ID(*channel))

	case "message":
		if err := need("id", *id); err != nil {
			return nil, err
		}
		return c.message(ctx, snowflake.ID(*id))

	case "dms":
		if err := need("user", *user); err != nil {
			return nil, err
		}
		return c.dms(ctx, snowflake.ID(*user))

	case "perms":
		return c.perms(ctx, snowflake.ID(*user), snowflake.ID(*guild), snowflake.ID(*channel))
	}
	return nil, fmt.Errorf("%w: %s", errUnknownCommand, cmd)
}
