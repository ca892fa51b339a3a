package main

import (
	"fmt"
	"os"

	"chatscan/inject"
	"chatscan/process"
	"chatscan/process_blob"
	"chatscan/resolver"
	"chatscan/scan"
	"chatscan/session"
	"chatscan/window"

	"github.com/ttacon/chalk"
)

// opener picks the process source selected by the persistent flags
func opener() process.ProcessOpener {
	switch {
	case fromDir != "":
		return process.OpenerFunc(func(string) (process.Process, error) {
			return process_blob.Load(fromDir)
		})
	case pidFlag != 0:
		return process.OpenerFunc(func(string) (process.Process, error) {
			return openPID(pidFlag)
		})
	}
	return newOpener()
}

// presence is the window check, or the process check when no title is set.
// Dumps are always present.
func presence() window.Presence {
	switch {
	case fromDir != "":
		return window.Always
	case cfg.WindowTitle != "":
		return window.ForTitle(cfg.WindowTitle)
	}
	return &window.ProcessPresence{Finder: newFinder(), Name: cfg.ProcessName}
}

func newScanner() *scan.Scanner {
	return scan.New(scan.WithMaxRegionSize(cfg.Scan.MaxRegionSize))
}

func newInjector(name string) (inject.Injector, error) {
	switch name {
	case "manual":
		return inject.NewManual(os.Stdout, os.Stdin), nil
	case "keyboard":
		k, err := inject.NewKeyboard(cfg.KeyDelay())
		if err != nil {
			return nil, fmt.Errorf("keyboard injector: %w (try --injector manual)", err)
		}
		return k, nil
	}
	return nil, fmt.Errorf("unknown injector %q", name)
}

// newSession wires a session whose resolutions type through injector
func newSession(injector inject.Injector) (*session.Session, error) {
	gen, err := cfg.NewProbeGenerator()
	if err != nil {
		return nil, err
	}
	scanner := newScanner()

	factory := func(src process.RegionSource) session.Resolver {
		return resolver.New(src, injector, scanner, gen,
			resolver.WithRounds(cfg.Resolver.Rounds),
			resolver.WithSettleDelay(cfg.SettleDelay()),
			resolver.WithObserver(printEvent))
	}

	return session.New(
		session.Config{
			ProcessName: cfg.ProcessName,
			Encodings:   cfg.Encodings,
			MaxBytes:    cfg.Poll.MaxBytes,
		},
		opener(),
		factory,
		session.WithPresence(presence()),
		session.WithScanner(scanner),
	), nil
}

func printEvent(ev resolver.Event) {
	switch {
	case ev.Round > 0:
		fmt.Printf("  %s round %d: %d hits\n", ev.Encoding, ev.Round, ev.Candidates)
	case ev.State == resolver.Probing:
		fmt.Println(chalk.Cyan.Color("Probing " + ev.Encoding))
	}
}

func statusColor(st session.Status) chalk.Color {
	switch st {
	case session.Resolved:
		return chalk.Green
	case session.Failed:
		return chalk.Red
	case session.TargetAbsent:
		return chalk.Yellow
	}
	return chalk.Cyan
}

func printStatus(st session.Status) {
	fmt.Println(statusColor(st).Color("[" + st.String() + "]"))
}
