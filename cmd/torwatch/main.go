// Command torwatch opens a Tor control-port connection, subscribes to
// CIRC/STREAM events, and prints the three relays currently carrying each
// domain's traffic as new circuits come online.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relaywatch/torwatch/control"
	"github.com/relaywatch/torwatch/tracker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := NewConfig()

	cmd := &cobra.Command{
		Use:   "torwatch",
		Short: "Watch Tor circuits and show which relays carry each domain's traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "control port host")
	cmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "control port")
	cmd.Flags().StringVar(&cfg.Password, "password", cfg.Password, "control port password")
	cmd.Flags().StringVar(&cfg.LocaleFile, "locale-file", defaultLocaleFile(), "YAML file overriding country code display names")

	return cmd
}

func run(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(control.NewRedactingHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	locale, err := loadLocaleTable(cfg.LocaleFile)
	if err != nil {
		return err
	}
	dsp := newDisplay(os.Stdout, locale)

	registry := control.NewRegistry(logger)
	defer registry.CloseAll()

	errSink := func(err error) {
		logger.Error("control connection error", "error", err)
	}

	conn, err := registry.Open(cfg.Addr(), cfg.Password, errSink)
	if err != nil {
		return fmt.Errorf("open control connection: %w", err)
	}
	ctl := control.NewController(conn)
	defer ctl.Close()

	trk := tracker.New(ctl, dsp.onNodesChanged, logger)

	unwatchCirc := ctl.WatchEvent("CIRC", nil, trk.HandleCircEvent)
	defer unwatchCirc()
	unwatchStream := ctl.WatchEvent("STREAM", nil, trk.HandleStreamEvent)
	defer unwatchStream()

	fmt.Printf("torwatch connected to %s, watching circuits...\n", cfg.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nshutting down...")
	return nil
}
