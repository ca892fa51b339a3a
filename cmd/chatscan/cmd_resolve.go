package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

var injectorFlag string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find the chat buffer address",
	Long: `Types random probe messages into the game's chat and intersects the
addresses they appear at. Each configured encoding is tried in order until
exactly one address remains.

The game window must have keyboard focus for the keyboard injector.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&injectorFlag, "injector", "", "keyboard or manual (overrides injector)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	name := cfg.Injector
	if injectorFlag != "" {
		name = injectorFlag
	}
	injector, err := newInjector(name)
	if err != nil {
		return err
	}

	sess, err := newSession(injector)
	if err != nil {
		return err
	}
	defer sess.Close()

	loc, err := sess.Resolve(ctx)
	printStatus(sess.Status())
	if err != nil {
		return err
	}

	fmt.Printf("Chat buffer at %s\n", chalk.Green.Color(loc.String()))
	if text, ok := sess.ReadCurrentText(cfg.Poll.MaxBytes); ok {
		fmt.Printf("Current text: %q\n", text)
	}
	fmt.Printf("Follow it with: chatscan read --address %s --encoding %s\n", loc.Address.ToString(), loc.Encoding.Name)
	return nil
}
