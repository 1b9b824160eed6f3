package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/aymericcousaert/squads-cli/internal/auth"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "sign in using the device code flow",
				Action: authLoginAction,
			},
			{
				Name:   "status",
				Usage:  "show authentication status",
				Action: authStatusAction,
			},
			{
				Name:   "logout",
				Usage:  "sign out and clear cached tokens",
				Action: authLogoutAction,
			},
			{
				Name:   "refresh",
				Usage:  "force a token renewal",
				Action: authRefreshAction,
			},
		},
	}
}

func authLoginAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	flow := auth.NewFlow()
	code, err := flow.Issue(ctx, cfg.Auth.Tenant)
	if err != nil {
		return err
	}

	if code.Message != "" {
		fmt.Println(code.Message)
	} else {
		fmt.Printf("To sign in, open %s and enter the code %s\n", code.VerificationURL, code.UserCode)
	}
	fmt.Println()

	stop := startSpinner(cfg.Output.NoColor, " waiting for sign-in...")
	token, err := flow.Wait(ctx, code, cfg.Auth.Tenant)
	stop()
	if err != nil {
		if errors.Is(err, auth.ErrAuthorizationTimeout) {
			return fmt.Errorf("sign-in timed out, run 'squads auth login' again")
		}
		return err
	}

	if err := manager.StoreRefreshToken(ctx, token); err != nil {
		return err
	}

	fmt.Println("Successfully authenticated.")
	return nil
}

func authStatusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if !manager.IsAuthenticated() {
		fmt.Println("Not authenticated. Run 'squads auth login' to sign in.")
		return nil
	}

	fmt.Println("Authenticated.")

	// Probe the Graph API; an expired refresh token only shows up here.
	profile, err := newTeamsClient(cfg, manager).Me(ctx)
	if err != nil {
		fmt.Println("Cached credentials could not be refreshed. Run 'squads auth login' again.")
		return nil
	}
	fmt.Println("  User: ", profile.DisplayName)
	if profile.Mail != "" {
		fmt.Println("  Email:", profile.Mail)
	}
	return nil
}

func authLogoutAction(ctx context.Context, cmd *cli.Command) error {
	_, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := manager.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func authRefreshAction(ctx context.Context, cmd *cli.Command) error {
	cfg, manager, cleanup, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if !manager.IsAuthenticated() {
		return auth.ErrNotAuthenticated
	}

	// Requesting a token renews the chain as a side effect.
	if _, err := newTeamsClient(cfg, manager).Me(ctx); err != nil {
		return fmt.Errorf("refreshing tokens: %w", err)
	}
	fmt.Println("Tokens refreshed.")
	return nil
}

// startSpinner shows a progress spinner while waiting, if stdout is an
// interactive terminal. The returned function stops it.
func startSpinner(noColor bool, suffix string) func() {
	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = suffix
	s.Start()
	return s.Stop
}
