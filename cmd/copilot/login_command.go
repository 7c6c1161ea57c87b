package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify the camera frame against the login service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.login(cmd.Context()); err != nil {
				return err
			}
			session := ctx.orchestrator.Gate().Session()
			if ctx.opts.jsonOutput {
				return writeJSON(cmd, session)
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.StatusMessage)
			return nil
		},
	}
}
