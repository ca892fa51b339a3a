package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chatscan/inject"
	"chatscan/monitor"
	"chatscan/session"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchAutoResolve bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the chat buffer and print every new line",
	Long: `Polls the resolved chat buffer on poll.interval and prints each new
line, skipping lines that contain a poll.ignore entry and lines seen within
the last poll.history lines. When the game window disappears the location is
dropped and must be resolved again.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchAutoResolve, "auto-resolve", false, "Resolve whenever no location is known (also poll.auto_resolve)")
	watchCmd.Flags().StringVar(&injectorFlag, "injector", "", "keyboard or manual (overrides injector)")
	watchCmd.Flags().StringVar(&addressFlag, "address", "", "Start from a known chat buffer address")
	watchCmd.Flags().StringVar(&encodingFlag, "encoding", "utf-8", "Encoding of the text at --address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	name := cfg.Injector
	if injectorFlag != "" {
		name = injectorFlag
	}
	injector, err := newInjector(name)
	if err != nil {
		// watching a known address needs no injector until a resolution is attempted
		injectErr := err
		injector = inject.Func(func(context.Context, string) error { return injectErr })
	}

	sess, err := newSession(injector)
	if err != nil {
		return err
	}
	defer sess.Close()

	if addressFlag != "" {
		loc, err := parseLocation(addressFlag, encodingFlag)
		if err != nil {
			return err
		}
		if err := sess.SetLocation(loc); err != nil {
			return err
		}
	}

	poller := monitor.New(sess, cfg.PollInterval(),
		monitor.WithFilter(monitor.NewFilter(cfg.Poll.Ignore, cfg.Poll.History)),
		monitor.WithAutoResolve(watchAutoResolve || cfg.Poll.AutoResolve),
		monitor.WithStatusHandler(func(st session.Status) { printStatus(st) }),
		monitor.WithMessageHandler(func(m monitor.Message) {
			fmt.Printf("%s %s\n", m.At.Format("15:04:05"), m.Text)
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return poller.Run(ctx)
	})

	g.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			fmt.Fprintf(os.Stderr, "\nReceived %s, stopping\n", sig)
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	return g.Wait()
}
