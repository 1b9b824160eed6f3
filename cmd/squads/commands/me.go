package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/aymericcousaert/squads-cli/internal/app"
)

func meCommand() *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "show the signed-in user's profile",
		Action: meAction,
	}
}

func meAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	profile, err := newTeamsClient(cfg, manager).Me(ctx)
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case app.OutputFormatJSON:
		return renderJSON(profile)
	case app.OutputFormatPlain:
		fmt.Println(profile.DisplayName)
		fmt.Println(profile.Mail)
		return nil
	default:
		renderTable(cfg,
			table.Row{"Name", "Email", "Title"},
			[]table.Row{{profile.DisplayName, profile.Mail, profile.JobTitle}},
		)
		return nil
	}
}
