package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/aymericcousaert/squads-cli/internal/app"
	"github.com/aymericcousaert/squads-cli/internal/auth"
	"github.com/aymericcousaert/squads-cli/internal/observability"
	"github.com/aymericcousaert/squads-cli/internal/teams"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "squads",
		Usage: "Microsoft Teams from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "auth--tenant",
				Usage: "Azure AD tenant",
				Value: app.DefaultConfigTenant,
			},
			&cli.StringFlag{
				Name:  "auth--storage",
				Usage: "token cache backend (file|keyring)",
				Value: string(app.DefaultConfigAuthStorage),
			},
			&cli.StringFlag{
				Name:  "api--region",
				Usage: "Teams service region (emea|amer|apac)",
				Value: app.DefaultConfigAPIRegion,
			},
			&cli.StringFlag{
				Name:  "output--format",
				Usage: "output format (table|json|plain)",
				Value: string(app.DefaultConfigOutputFormat),
			},
			&cli.BoolFlag{
				Name:  "output--no-color",
				Usage: "disable colored output",
			},
		},
		Commands: []*cli.Command{
			authCommand(),
			meCommand(),
			usersCommand(),
			chatsCommand(),
			configCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

// setup loads configuration, installs the logger and constructs the token
// manager every command depends on. The manager is always passed explicitly;
// there is no ambient singleton. The returned cleanup flushes any buffered
// log export and must be deferred by the caller.
func setup(ctx context.Context, cmd *cli.Command) (*app.Config, *auth.Manager, func(), error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before anything logs
	shutdown, err := observability.Instrument(ctx, observability.Options{
		Level:        cfg.LogLevel,
		Format:       string(cfg.LogFormat),
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPProtocol: cfg.Telemetry.OTLPProtocol,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up observability layer: %w", err)
	}
	cleanup := func() { _ = shutdown(context.WithoutCancel(ctx)) }

	store, err := cfg.Auth.NewCacheStore()
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	manager, err := auth.NewManager(ctx, store, auth.WithTenant(cfg.Auth.Tenant))
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	return cfg, manager, cleanup, nil
}

// newTeamsClient builds the REST client on top of the token manager.
func newTeamsClient(cfg *app.Config, manager *auth.Manager) *teams.Client {
	return teams.NewClient(manager,
		teams.WithRegion(cfg.API.Region),
		teams.WithTimeout(cfg.API.Timeout),
	)
}
