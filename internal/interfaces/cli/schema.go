package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caselens/tiger/internal/application/hydration"
	"github.com/caselens/tiger/pkg/errors"
)

// schemaReport carries the outcome of checking one file against the
// hydrated document schema.
type schemaReport struct {
	File       string   `json:"file"`
	Violations []string `json:"violations"`
}

func (r schemaReport) String() string {
	if len(r.Violations) == 0 {
		return fmt.Sprintf("%s conforms to the hydrated document schema", r.File)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s has %d violation(s)\n", r.File, len(r.Violations))
	for _, v := range r.Violations {
		fmt.Fprintf(&sb, "    %s\n", v)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [FILE]",
		Short: "Print the hydrated document schema or check a document against it",
		Long: "schema prints the embedded JSON Schema the hydrated complaint documents\n" +
			"are checked against. With a FILE argument it checks that document instead\n" +
			"and exits non-zero on violations.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(hydration.SchemaJSON(), "\n"))
				return nil
			}

			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeIO, "reading document "+args[0])
			}

			hydrator, err := hydration.NewHydrator(cliCtx.Logger)
			if err != nil {
				return err
			}
			violations, err := hydrator.CheckBytes(payload)
			if err != nil {
				return err
			}

			report := schemaReport{File: args[0], Violations: violations}
			if report.Violations == nil {
				report.Violations = []string{}
			}
			if err := PrintResult(cmd, report); err != nil {
				return err
			}
			if len(violations) > 0 {
				return errors.New(errors.ErrCodeSchemaViolation,
					fmt.Sprintf("%s has %d schema violation(s)", args[0], len(violations)))
			}
			return nil
		},
	}
}
