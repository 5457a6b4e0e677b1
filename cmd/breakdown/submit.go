package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bilgisen/breakdown/internal/bootstrap"
	"github.com/bilgisen/breakdown/internal/submission"
)

var (
	flagName  string
	flagEmail string
	flagBody  string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a reader submission to the opinion desk",
	Long:  "submit stores one reader submission. Without --body the text is read from stdin.",
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&flagName, "name", "", "submitter name (optional)")
	submitCmd.Flags().StringVar(&flagEmail, "email", "", "submitter email (optional)")
	submitCmd.Flags().StringVar(&flagBody, "body", "", "submission text")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := setup("stderr")
	if err != nil {
		return err
	}

	body := flagBody
	if body == "" {
		raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 1<<20))
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		body = strings.TrimSpace(string(raw))
	}

	svc, err := bootstrap.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	res := svc.Content.SubmitOpinion(cmd.Context(), submission.Input{
		Name:  flagName,
		Email: flagEmail,
		Body:  body,
	})
	if !res.Success {
		return errors.New(res.Error)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Thanks! Your submission was received.")
	return nil
}
