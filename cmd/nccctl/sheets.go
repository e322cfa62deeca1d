package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Abraxas-365/nccerp/pkg/app"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Inspect the Google Sheets ANO directory",
}

var sheetsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Read the ANO sheet and print the first contacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *app.Container) error {
			if missing := c.DirectoryService.Validate(); len(missing) > 0 {
				return fmt.Errorf("sheets not configured: %s", strings.Join(missing, ", "))
			}
			res := c.DirectoryService.TestConnection(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)
			for _, ct := range res.Contacts {
				fmt.Fprintf(out, "  %s %s | %s | %s | %s\n", ct.Rank, ct.Name, ct.College, ct.Email, ct.WhatsAppNumber)
			}
			if !res.Success {
				return errors.New("sheet connection failed")
			}
			return nil
		})
	},
}

var sheetsReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare sheet colleges with the colleges and ANOs in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *app.Container) error {
			report, err := c.DirectoryService.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "MATCHED %d\n", len(report.Matched))
			for _, m := range report.Matched {
				fmt.Fprintf(out, "  %s -> %s (%s)\n", m.SheetCollege, m.College, m.ANOName)
			}
			fmt.Fprintf(out, "UNMATCHED SHEET ROWS %d\n", len(report.UnmatchedSheet))
			for _, ct := range report.UnmatchedSheet {
				fmt.Fprintf(out, "  %s (%s)\n", ct.College, ct.Email)
			}
			fmt.Fprintf(out, "COLLEGES WITHOUT SHEET ROWS %d\n", len(report.UnmatchedColleges))
			for _, g := range report.UnmatchedColleges {
				fmt.Fprintf(out, "  %s (%d ANOs)\n", g.CollegeName, g.ANOCount)
			}
			return nil
		})
	},
}

func init() {
	sheetsCmd.AddCommand(sheetsTestCmd, sheetsReconcileCmd)
	rootCmd.AddCommand(sheetsCmd)
}
