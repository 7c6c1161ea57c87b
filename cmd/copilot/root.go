package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var opts globalOptions

	ctx := newCommandContext(&opts)

	rootCmd := &cobra.Command{
		Use:           "copilot",
		Short:         "Career Copilot CLI",
		Long:          "Log in with a camera frame, then generate interview questions, build a resume or verify a document.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "api", "", "Backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.framePath, "frame", "", "Camera frame used for login (overrides CAPTURE_FRAME_PATH)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newLoginCommand(ctx))
	rootCmd.AddCommand(newInterviewCommand(ctx))
	rootCmd.AddCommand(newResumeCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))

	return rootCmd
}
