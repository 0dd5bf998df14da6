package importers

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mrlokans/budget-tracker/internal/audit"
	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

// Source describes where an import came from.
type Source struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// ImportResult is the outcome of the read phase.
type ImportResult struct {
	Source Source
	Tables schema.Tables
}

// Pipeline handles the import workflow:
// detect → read → normalize, then optionally apply.
//
// Reading never touches the target store. Apply is a separate step so callers
// can inspect or preview the normalized tables first.
type Pipeline struct {
	engine *Engine
	audit  *audit.Service
	log    zerolog.Logger
}

// NewPipeline creates an import pipeline writing into store. auditSvc may be nil.
func NewPipeline(store database.Store, auditSvc *audit.Service, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		engine: NewEngine(store, log),
		audit:  auditSvc,
		log:    log,
	}
}

// Import detects the shape of path, reads it and normalizes every table.
func (p *Pipeline) Import(path string) (ImportResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	kind, err := Detect(path)
	if err != nil {
		p.audit.LogImport(abs, "unknown", nil, err)
		return ImportResult{}, err
	}

	reader, err := ReaderFor(kind)
	if err != nil {
		p.audit.LogImport(abs, string(kind), nil, err)
		return ImportResult{}, err
	}

	raw, err := reader.Read(path)
	if err != nil {
		err = fmt.Errorf("failed to read %s source: %w", kind, err)
		p.audit.LogImport(abs, string(kind), nil, err)
		return ImportResult{}, err
	}

	tables := schema.Normalize(raw)
	counts := tables.Counts()

	p.log.Info().
		Str("path", abs).
		Str("kind", string(kind)).
		Interface("rows", counts).
		Msg("import read")
	p.audit.LogImport(abs, string(kind), counts, nil)

	return ImportResult{
		Source: Source{Path: abs, Kind: kind},
		Tables: tables,
	}, nil
}

// Apply merges previously imported tables into the store.
func (p *Pipeline) Apply(tables schema.Tables) Report {
	report := p.engine.Apply(tables)
	p.audit.LogApply(report.BatchID, report.Inserted, report.ErrorMessages())
	return report
}

// ImportAndApply reads path and applies it in one call.
func (p *Pipeline) ImportAndApply(path string) (ImportResult, Report, error) {
	result, err := p.Import(path)
	if err != nil {
		return ImportResult{}, Report{}, err
	}
	return result, p.Apply(result.Tables), nil
}
