package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/services"
)

func newInterviewCommand(ctx *commandContext) *cobra.Command {
	var role, company string

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Generate interview questions for a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				services.FieldRole:    role,
				services.FieldCompany: company,
			}
			if err := ctx.run(cmd.Context(), models.WorkflowInterview, fields, nil); err != nil {
				return err
			}

			result := ctx.orchestrator.Interview().Result()
			if ctx.opts.jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return resultError(result.Status, result.Err)
			}
			if err := resultError(result.Status, result.Err); err != nil {
				return err
			}

			rows := make([][]string, 0, len(result.Payload))
			for i, qa := range result.Payload {
				rows = append(rows, []string{strconv.Itoa(i + 1), qa.Question, qa.Answer})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Question", "Answer"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Target role")
	cmd.Flags().StringVar(&company, "company", "", "Target company")

	return cmd
}

func newResumeCommand(ctx *commandContext) *cobra.Command {
	var name, email, skills, experience string
	var download bool

	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Build a resume PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				services.FieldName:       name,
				services.FieldEmail:      email,
				services.FieldSkills:     skills,
				services.FieldExperience: experience,
			}
			if err := ctx.run(cmd.Context(), models.WorkflowResume, fields, nil); err != nil {
				return err
			}

			result := ctx.orchestrator.Resume().Result()
			if ctx.opts.jsonOutput && !download {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return resultError(result.Status, result.Err)
			}
			if err := resultError(result.Status, result.Err); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Resume ready:", result.Payload.DownloadURL)
			if !download {
				return nil
			}

			saved, err := ctx.fetcher.Fetch(cmd.Context(), result.Payload)
			if err != nil {
				return err
			}
			if ctx.opts.jsonOutput {
				return writeJSON(cmd, saved)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"File", "Pages", "Preview"},
				[][]string{{saved.Path, strconv.Itoa(saved.PageCount), saved.Preview}},
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&skills, "skills", "", "Skills, comma separated")
	cmd.Flags().StringVar(&experience, "experience", "", "Experience summary")
	cmd.Flags().BoolVar(&download, "download", false, "Download and inspect the generated PDF")

	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a document's authenticity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := services.LocalFile{Path: args[0], Type: strings.TrimSpace(contentType)}
			if err := ctx.run(cmd.Context(), models.WorkflowVerify, nil, file); err != nil {
				return err
			}

			result := ctx.orchestrator.Verify().Result()
			if ctx.opts.jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
				return resultError(result.Status, result.Err)
			}
			if err := resultError(result.Status, result.Err); err != nil {
				return err
			}

			report := result.Payload
			verdict := "SUSPICIOUS"
			if report.IsValid {
				verdict = "VALID"
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Verdict", "Score", "Type", "Reasoning"},
				[][]string{{verdict, strconv.FormatFloat(report.Score, 'f', -1, 64), report.DocumentType, report.Reasoning}},
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "MIME type of the file (detected when empty)")

	return cmd
}

// resultError turns a failed workflow result into the command's error so the
// exit code reflects it. The failure message travels as the error's hint.
func resultError(status services.ResultStatus, err error) error {
	if status == services.ResultSuccess {
		return nil
	}
	if err == nil {
		err = errors.New("workflow failed")
	}
	return errors.Wrap(err, "workflow")
}
