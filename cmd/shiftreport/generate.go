package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/shiftreport/internal/service"
	"github.com/Simplici0/shiftreport/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report from a YAML request file",
	Long: `Generate reads a shift submission from a YAML (or JSON) file:

  name: Dana Cruz
  shift: 2
  wage: 12.00
  notes: BZ down for changeover
  lines:
    AZ: {type: Rotary, qty: "6000", ple: 2, hrs: 8}
    H1: {type: Tray 12, qty: "40", ple: 1, hrs: 2}
  prices:
    AZ: {over: "0.235", under: "0.382"}`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "request file")
	_ = generateCmd.MarkFlagRequired("file")
}

func readSubmission(path string) (service.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Submission{}, fmt.Errorf("read request: %w", err)
	}
	var sub service.Submission
	if err := yaml.Unmarshal(data, &sub); err != nil {
		return service.Submission{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return sub, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	sub, err := readSubmission(path)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	archive, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()
	gen, err := newGenerator()
	if err != nil {
		return err
	}

	w := worker.New(appLog)
	w.Start(context.Background())
	defer w.Stop()

	outcome, err := service.New(store, gen, archive, w, appLog).Generate(cmd.Context(), sub)
	if err != nil {
		return err
	}
	out := <-outcome
	if out.Err != nil {
		return out.Err
	}
	if out.Path == "" {
		return errors.New("report was not written")
	}

	fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Report written to "+out.Path))
	return nil
}
