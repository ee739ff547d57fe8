package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [QUERY]",
	Short: "List generated reports, newest first",
	Long:  "List generated reports, newest first. QUERY filters by operator name or notes.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, closeDB, err := openArchive()
		if err != nil {
			return err
		}
		defer closeDB()

		items, err := archive.List(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderHistory(items))
		return nil
	},
}
