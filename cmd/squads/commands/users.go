package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/aymericcousaert/squads-cli/internal/app"
)

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "list directory users",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "maximum number of users to list",
				Value: 100,
			},
		},
		Action: usersAction,
	}
}

func usersAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := newTeamsClient(cfg, manager).Users(ctx, int(cmd.Int("top")))
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case app.OutputFormatJSON:
		return renderJSON(users.Value)
	case app.OutputFormatPlain:
		for _, u := range users.Value {
			fmt.Println(u.DisplayName, u.Mail)
		}
		return nil
	default:
		rows := make([]table.Row, 0, len(users.Value))
		for _, u := range users.Value {
			rows = append(rows, table.Row{u.DisplayName, u.Mail, u.JobTitle})
		}
		renderTable(cfg, table.Row{"Name", "Email", "Title"}, rows)
		return nil
	}
}
