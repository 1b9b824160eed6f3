package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect configuration",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the effective configuration",
				Action: configShowAction,
			},
		},
	}
}

func configShowAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return renderJSON(cfg)
}
