package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/caselens/tiger/internal/application/pipeline"
	"github.com/caselens/tiger/pkg/errors"
)

// caseReport summarizes one case folder run for command output.
type caseReport struct {
	Folder     string   `json:"folder"`
	CaseID     string   `json:"case_id,omitempty"`
	CaseName   string   `json:"case_name,omitempty"`
	CaseDir    string   `json:"case_dir,omitempty"`
	Documents  int      `json:"documents"`
	CacheHits  int      `json:"cache_hits,omitempty"`
	Confidence float64  `json:"confidence"`
	Valid      bool     `json:"valid"`
	Issues     int      `json:"issues,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Archived   int      `json:"archived_objects,omitempty"`
	Indexed    bool     `json:"indexed,omitempty"`
	Elapsed    string   `json:"elapsed,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func newCaseReport(folder string, res *pipeline.CaseResult) caseReport {
	return caseReport{
		Folder:     folder,
		CaseID:     res.CaseID,
		CaseName:   res.CaseName,
		CaseDir:    res.CaseDir,
		Documents:  len(res.Results),
		CacheHits:  res.CacheHits,
		Confidence: res.Record.ExtractionConfidence,
		Valid:      res.Validation.IsValid,
		Issues:     res.Validation.TotalIssues,
		Warnings:   res.Record.Warnings,
		Archived:   res.Archived,
		Indexed:    res.Indexed,
		Elapsed:    res.Elapsed.Round(time.Millisecond).String(),
	}
}

// processReport aggregates a batch of case folder runs.
type processReport struct {
	Cases     []caseReport `json:"cases"`
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
}

func (r processReport) String() string {
	var sb strings.Builder
	for _, c := range r.Cases {
		if c.Error != "" {
			fmt.Fprintf(&sb, "%s: failed: %s\n", c.Folder, c.Error)
			continue
		}
		status := "valid"
		if !c.Valid {
			status = fmt.Sprintf("%d validation issue(s)", c.Issues)
		}
		fmt.Fprintf(&sb, "%s: %s (%d documents, confidence %.0f, %s)\n",
			c.Folder, c.CaseName, c.Documents, c.Confidence, status)
		fmt.Fprintf(&sb, "    output: %s\n", c.CaseDir)
		for _, w := range c.Warnings {
			fmt.Fprintf(&sb, "    warning: %s\n", w)
		}
	}
	fmt.Fprintf(&sb, "%d processed, %d failed", r.Processed, r.Failed)
	return sb.String()
}

func newProcessCommand() *cobra.Command {
	var (
		outputRoot string
		policy     string
	)

	cmd := &cobra.Command{
		Use:   "process FOLDER [FOLDER...]",
		Short: "Run case folders through the full pipeline",
		Long: "process scans each folder for case documents, extracts and consolidates\n" +
			"them into one record, validates it, and writes the case tree (processed\n" +
			"text, raw text, metadata, case_info.json, complaint.json, case_summary.md,\n" +
			"hydrated complaint) under the output root. Folders are independent: a\n" +
			"failed folder does not stop the batch, it fails the exit code.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			cfg := *cliCtx.Config
			if outputRoot != "" {
				cfg.Output.Root = outputRoot
			}
			if policy != "" {
				cfg.Output.Policy = policy
			}

			runner, scrape, shutdown, err := buildRunner(cmd.Context(), &cfg, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer shutdown()

			stopMetrics := serveMetrics(scrape, cfg.Metrics.Listen, cliCtx.Logger)
			defer stopMetrics()

			var report processReport
			for _, folder := range args {
				res, runErr := runner.Run(cmd.Context(), folder)
				if runErr != nil {
					report.Cases = append(report.Cases, caseReport{
						Folder: folder,
						Error:  runErr.Error(),
					})
					report.Failed++
					continue
				}
				report.Cases = append(report.Cases, newCaseReport(folder, res))
				report.Processed++
			}

			if err := PrintResult(cmd, report); err != nil {
				return err
			}
			if report.Failed > 0 {
				return errors.Internal(fmt.Sprintf("%d of %d case folders failed",
					report.Failed, len(args)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputRoot, "output-root", "",
		"write case trees under this directory instead of the configured root")
	cmd.Flags().StringVar(&policy, "policy", "",
		"overwrite policy for existing files (version, overwrite, error)")

	return cmd
}
