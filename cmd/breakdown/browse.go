package main

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/bilgisen/breakdown/internal/bootstrap"
	"github.com/bilgisen/breakdown/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Read the site in the terminal",
	RunE:  runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// The screen belongs to the reader, so logs go to a file.
	cfg, err := setup(browseLogPath())
	if err != nil {
		return err
	}

	svc, err := bootstrap.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	return tui.Run(svc.Content, tui.Options{
		PageSize:     cfg.PageSize,
		RelatedLimit: cfg.RelatedLimit,
		Location:     cfg.Location(),
	})
}

func browseLogPath() string {
	return filepath.Join(xdg.StateHome, "breakdown", "browse.log")
}
