package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/rensou/internal/cli"
)

func newWalkCommand() *cobra.Command {
	var explorerOptions explorerFlags

	command := &cobra.Command{
		Use:   "walk [WORD]",
		Short: "Walk from concept to concept interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, err := newExplorer(cfg, explorerOptions)
			if err != nil {
				return err
			}
			walkOptions, err := newWalkOptions(cfg)
			if err != nil {
				return err
			}

			walk := cli.NewWalkSession(cli.NewInteractiveCLI(cmd.InOrStdin(), cmd.OutOrStdout()), e, walkOptions)
			ctx := cmd.Context()
			if len(args) > 0 {
				// A failed first search is already printed; the walk continues from an empty session.
				_ = walk.Search(ctx, args[0])
			}
			if err := walk.Run(ctx, walk); err != nil {
				return fmt.Errorf("walk.Run() > %w", err)
			}
			return nil
		},
	}
	explorerOptions.register(command.Flags())
	return command
}
