package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caselens/tiger/internal/application/consolidation"
	"github.com/caselens/tiger/internal/application/pipeline"
	"github.com/caselens/tiger/internal/application/processing"
	"github.com/caselens/tiger/internal/domain/document"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/intelligence/date_ner"
	"github.com/caselens/tiger/internal/intelligence/legal_ner"
)

// consolidateReport wraps the record so text output gets a readable summary
// while JSON output stays the record itself.
type consolidateReport struct {
	*legalcase.ConsolidatedCase
}

func (r consolidateReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "case: %s\n", r.CaseID)
	fmt.Fprintf(&sb, "plaintiff: %s\n", r.Plaintiff.Name)
	if r.CaseInformation.CaseNumber != "" {
		fmt.Fprintf(&sb, "case number: %s\n", r.CaseInformation.CaseNumber)
	}
	if r.CaseInformation.CourtName != "" {
		fmt.Fprintf(&sb, "court: %s\n", r.CaseInformation.CourtName)
	}
	fmt.Fprintf(&sb, "defendants: %d\n", len(r.Defendants))
	for _, d := range r.Defendants {
		fmt.Fprintf(&sb, "    %s\n", d.Name)
	}
	fmt.Fprintf(&sb, "causes of action: %d\n", len(r.CausesOfAction))
	fmt.Fprintf(&sb, "documents: %s\n", strings.Join(r.SourceDocuments, ", "))
	fmt.Fprintf(&sb, "confidence: %.0f", r.ExtractionConfidence)
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "\nwarning: %s", w)
	}
	return sb.String()
}

func newConsolidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate FOLDER",
		Short: "Extract and consolidate one case folder without writing artifacts",
		Long: "consolidate runs extraction and consolidation over a case folder and\n" +
			"prints the resulting record. Nothing is written to the output root; use\n" +
			"it to inspect what process would build.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			logger := cliCtx.Logger

			files, err := pipeline.ScanCaseFolder(args[0], logger)
			if err != nil {
				return err
			}

			proc, err := processing.NewProcessor(
				buildRegistry(cliCtx.Config.Processing),
				date_ner.NewRecognizer(),
				legal_ner.NewRecognizer(),
				logger)
			if err != nil {
				return err
			}

			results := make([]document.ExtractionResult, 0, len(files))
			for _, f := range files {
				results = append(results, proc.Process(cmd.Context(), f))
			}

			consolidator := consolidation.NewConsolidator(
				firmSettings(cliCtx.Config.Firm), logger)
			record := consolidator.Consolidate(cmd.Context(), args[0], results, nil)

			return PrintResult(cmd, consolidateReport{record})
		},
	}
}
