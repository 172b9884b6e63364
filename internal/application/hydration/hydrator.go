package hydration

import (
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/caselens/tiger/internal/domain/legalcase"
	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
	"github.com/caselens/tiger/pkg/errors"
)

//go:embed hydrated_fcra.schema.json
var hydratedSchema string

// schemaResource is the canonical identifier the embedded schema compiles
// under.
const schemaResource = "https://caselens.dev/schemas/hydrated_fcra.schema.json"

// SchemaJSON returns the embedded hydrated document schema verbatim, for
// callers that publish or inspect it.
func SchemaJSON() string {
	return hydratedSchema
}

// FileName returns the output file name of the hydrated document for a case.
func FileName(caseName string) string {
	return "hydrated_FCRA_" + caseName + ".json"
}

// Hydrator produces the hydrated complaint document from a consolidated
// record and writes it to disk.
type Hydrator interface {
	// Hydrate builds the document and returns it with any schema violations
	// as warnings.  Violations never block: the document is always returned.
	Hydrate(record *legalcase.ConsolidatedCase) (*Document, []string)

	// CheckBytes validates raw JSON against the hydrated document schema and
	// returns one warning per violation.  The error is non-nil only when the
	// payload is not valid JSON at all.
	CheckBytes(payload []byte) ([]string, error)

	// WriteFile serializes the document into dir under the standard file name
	// and returns the written path.
	WriteFile(doc *Document, dir, caseName string) (string, error)
}

type hydrator struct {
	schema *jsonschema.Schema
	logger logging.Logger
}

// NewHydrator compiles the embedded schema and returns a ready hydrator.
// A nil logger falls back to the process default.
func NewHydrator(logger logging.Logger) (Hydrator, error) {
	if logger == nil {
		logger = logging.Default()
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, strings.NewReader(hydratedSchema)); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSchemaCompile, "adding hydrated document schema")
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSchemaCompile, "compiling hydrated document schema")
	}
	return &hydrator{schema: schema, logger: logger.Named("hydration")}, nil
}

func (h *hydrator) Hydrate(record *legalcase.ConsolidatedCase) (*Document, []string) {
	doc := build(record)
	warnings := h.check(doc)
	if len(warnings) > 0 {
		h.logger.Warn("hydrated document has schema violations",
			logging.String("case_id", record.CaseID),
			logging.Int("violations", len(warnings)))
	}
	return doc, warnings
}

func (h *hydrator) check(doc *Document) []string {
	payload, err := json.Marshal(doc)
	if err != nil {
		return []string{"schema: document not serializable: " + err.Error()}
	}
	warnings, err := h.CheckBytes(payload)
	if err != nil {
		return []string{"schema: " + err.Error()}
	}
	return warnings
}

func (h *hydrator) CheckBytes(payload []byte) ([]string, error) {
	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decoding document for schema check")
	}
	if err := h.schema.Validate(decoded); err != nil {
		return schemaWarnings(err), nil
	}
	return nil, nil
}

// schemaWarnings flattens a validation error into one warning per violated
// leaf keyword, skipping the aggregate branch entries.
func schemaWarnings(err error) []string {
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return []string{"schema: " + err.Error()}
	}
	var warnings []string
	for _, detail := range ve.BasicOutput().Errors {
		if detail.Error == "" || strings.HasPrefix(detail.Error, "doesn't validate with") {
			continue
		}
		location := detail.InstanceLocation
		if location == "" {
			location = "/"
		}
		warnings = append(warnings, fmt.Sprintf("schema: %s: %s", location, detail.Error))
	}
	if len(warnings) == 0 {
		warnings = append(warnings, "schema: "+ve.Error())
	}
	return warnings
}

func (h *hydrator) WriteFile(doc *Document, dir, caseName string) (string, error) {
	if doc == nil {
		return "", errors.InvalidParam("document is required")
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeHydrationFailed, "serializing hydrated document")
	}
	payload = append(payload, '\n')
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeIO, "creating hydrated output directory")
	}
	path := filepath.Join(dir, FileName(caseName))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOutputWrite, "writing hydrated document")
	}
	h.logger.Info("hydrated document written",
		logging.String("path", path),
		logging.Int("bytes", len(payload)))
	return path, nil
}
