// Package cli команды сканера: run, reconcile, deals, evaluate.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"transfer_scanner/internal/application"
	"transfer_scanner/internal/worker"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type envKey struct{}

// NewRootCommand wires the subcommands. Every subcommand gets the bootstrapped
// environment through the command context.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "scanner",
		Short:         "Finds underpriced players on the transfer market.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, env, err := application.Bootstrap(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(ctx, envKey{}, env))

			return nil
		},
	}

	root.AddCommand(
		newRunCommand(),
		newReconcileCommand(),
		newDealsCommand(),
		newEvaluateCommand(),
	)

	return root
}

// Execute runs root and closes the environment of the executed command afterwards.
// cobra skips post-run hooks when RunE fails, so the log file is closed here.
func Execute(ctx context.Context, root *cobra.Command) error {
	cmd, err := root.ExecuteContextC(ctx)

	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}

	if err != nil && !worker.IsStopped(err) {
		logger(ctx).ErrorContext(ctx, "application failed", logx.Error(err))
	} else {
		logger(ctx).InfoContext(ctx, "application stopped")
	}

	if cmd != nil && cmd.Context() != nil {
		if closeErr := envFrom(cmd).Close(); closeErr != nil {
			logger(ctx).WarnContext(ctx, "log file close", logx.Error(closeErr))
		}
	}

	return err
}

func envFrom(cmd *cobra.Command) *application.Env {
	env, _ := cmd.Context().Value(envKey{}).(*application.Env)

	return env
}
