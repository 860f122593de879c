// Command farmctl runs operator tasks against the farming engine's stores:
// schema migrations, a one-off tick, basis reconciliation and operator
// token issuance.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"farming-engine/config"
	"farming-engine/internal/adapter/http/dto"
	"farming-engine/internal/adapter/queue"
	pgStorage "farming-engine/internal/adapter/storage/postgres"
	"farming-engine/internal/app"
	"farming-engine/internal/service"
	"farming-engine/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const usage = `Usage: farmctl <command> [flags]

Commands:
  migrate up|down|status       apply, roll back or show schema migrations
  tick                         run one accrual batch now
  reconcile --user --currency  rebuild a position basis from the ledger
  token --operator             issue an operator bearer token

Every command accepts --config <path>.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "farmctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	cfgPath := fs.String("config", "", "path to config.yaml")

	switch cmd {
	case "migrate":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("usage: farmctl migrate up|down|status")
		}
		cfg, log, err := load(*cfgPath)
		if err != nil {
			return err
		}
		return migrate(ctx, cfg, pgStorage.MigrateCommand(fs.Arg(0)), log)

	case "tick":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		cfg, log, err := load(*cfgPath)
		if err != nil {
			return err
		}
		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		report, err := a.Runner.Trigger(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, report)

	case "reconcile":
		user := fs.Int64("user", 0, "user id")
		currency := fs.String("currency", "", "currency code, e.g. UNI")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *user <= 0 || *currency == "" {
			return errors.New("usage: farmctl reconcile --user <id> --currency <code>")
		}
		cfg, log, err := load(*cfgPath)
		if err != nil {
			return err
		}
		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		result, err := a.Reconciler.RecomputeBasisFromLedger(ctx, *user, *currency)
		if err != nil {
			return err
		}
		return writeJSON(out, result)

	case "token":
		operator := fs.String("operator", "", "operator name placed in the token subject")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		cfg, _, err := load(*cfgPath)
		if err != nil {
			return err
		}
		if cfg.JWT.Secret == "" {
			return errors.New("jwt.secret is not configured")
		}
		tokens := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
		token, expiry, err := tokens.Generate(*operator)
		if err != nil {
			return err
		}
		return writeJSON(out, dto.TokenResponse{Token: token, Expiry: expiry.Unix()})

	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}

	fmt.Fprint(out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func load(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.New(cfg.Log.Level, true)
	return cfg, log, nil
}

// migrate runs goose against the schema and, going up, River's own tables.
func migrate(ctx context.Context, cfg *config.Config, cmd pgStorage.MigrateCommand, log zerolog.Logger) error {
	if err := pgStorage.Migrate(ctx, cfg.Database.DSN(), cmd, log); err != nil {
		return err
	}
	if cmd != pgStorage.MigrateUp || !cfg.Queue.Enabled {
		return nil
	}
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	return queue.Migrate(ctx, pool, log)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
