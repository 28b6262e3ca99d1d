package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"epubgen/src/cmd/pubgen/generatecmd"
	"epubgen/src/cmd/pubgen/metadatacmd"
	"epubgen/src/internal/logging"
)

func newRootCmd() *cobra.Command {
	var logOpts logging.Options
	root := &cobra.Command{
		Use:   "pubgen",
		Short: "Normalize book metadata and assemble e-book publication records",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logOpts.Writer = cmd.ErrOrStderr()
			log, err := logging.New(logOpts)
			if err != nil {
				return err
			}
			cmd.SetContext(log.WithContext(cmd.Context()))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logOpts.Level, "log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logOpts.Format, "log-format", logging.FormatPretty, "Log format: pretty or json")

	root.AddCommand(generatecmd.New())
	root.AddCommand(metadatacmd.New())
	return root
}

func execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
