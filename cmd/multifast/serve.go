package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pombredanne/multifast/pkg/scanner"
	"github.com/pombredanne/multifast/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor/extension integration",
	Long: `Run multifast as a long-lived streaming server that accepts scan requests
via stdin and outputs findings via stdout using NDJSON format.

The process loads rules once at startup and processes requests until
stdin closes or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	core, err := scanner.NewCore("builtin", nil)
	if err != nil {
		return err
	}
	defer core.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
