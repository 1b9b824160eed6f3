package commands

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/aymericcousaert/squads-cli/internal/app"
)

func chatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "chats",
		Usage: "list teams and chats",
		Commands: []*cli.Command{
			{
				Name:      "send",
				Usage:     "send a message to a conversation",
				ArgsUsage: "<conversation-id> <message>",
				Action:    chatsSendAction,
			},
		},
		Action: chatsAction,
	}
}

func chatsAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	details, err := newTeamsClient(cfg, manager).UserDetails(ctx)
	if err != nil {
		return err
	}

	switch cfg.Output.Format {
	case app.OutputFormatJSON:
		return renderJSON(details)
	case app.OutputFormatPlain:
		for _, t := range details.Teams {
			fmt.Println(t.ID, t.DisplayName)
		}
		for _, c := range details.Chats {
			fmt.Println(c.ID, c.Title)
		}
		return nil
	default:
		teamRows := make([]table.Row, 0, len(details.Teams))
		for _, t := range details.Teams {
			teamRows = append(teamRows, table.Row{t.ID, t.DisplayName})
		}
		renderTable(cfg, table.Row{"Team ID", "Name"}, teamRows)

		chatRows := make([]table.Row, 0, len(details.Chats))
		for _, c := range details.Chats {
			chatRows = append(chatRows, table.Row{c.ID, c.Title})
		}
		renderTable(cfg, table.Row{"Chat ID", "Title"}, chatRows)
		return nil
	}
}

func chatsSendAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	args := cmd.Args()
	if args.Len() != 2 {
		return fmt.Errorf("usage: squads chats send <conversation-id> <message>")
	}

	if _, err := newTeamsClient(cfg, manager).SendMessage(ctx, args.Get(0), args.Get(1)); err != nil {
		return err
	}
	fmt.Println("Message sent.")
	return nil
}
