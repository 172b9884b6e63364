package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caselens/tiger/internal/application/validation"
	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/pkg/errors"
)

// validateReport wraps the suite summary for the two output formats.
type validateReport struct {
	validation.Summary
}

func (r validateReport) String() string {
	var sb strings.Builder
	for _, res := range r.Results {
		if res.Passed() {
			fmt.Fprintf(&sb, "%-14s ok\n", res.Validator)
			continue
		}
		fmt.Fprintf(&sb, "%-14s %d issue(s)\n", res.Validator, len(res.Issues))
		for _, issue := range res.Issues {
			fmt.Fprintf(&sb, "    %s\n", issue)
		}
	}
	if r.IsValid {
		sb.WriteString("record is valid")
	} else {
		fmt.Fprintf(&sb, "record failed with %d issue(s)", r.TotalIssues)
	}
	return sb.String()
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Run the validator suite over a consolidated case record",
		Long: "validate loads a consolidated record (the case_info.json that process\n" +
			"writes) and runs the FCRA, completeness, and timeline validators over it.\n" +
			"The exit code is non-zero when the record has issues.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeIO, "reading record "+args[0])
			}
			var record legalcase.ConsolidatedCase
			if err := json.Unmarshal(payload, &record); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization,
					"parsing record "+args[0])
			}

			summary := validation.NewDefaultSuite(cliCtx.Logger).Validate(&record)
			if err := PrintResult(cmd, validateReport{summary}); err != nil {
				return err
			}
			if !summary.IsValid {
				return errors.New(errors.ErrCodeValidationFailed,
					fmt.Sprintf("record has %d validation issue(s)", summary.TotalIssues))
			}
			return nil
		},
	}
}
