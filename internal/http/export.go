package http

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/budget-tracker/internal/exporters"
)

// Exporter writes export files and snapshots.
type Exporter interface {
	Export(format exporters.Format, bundling exporters.Bundling, outPath string) (exporters.ExportResult, error)
	Snapshot(dest string, overwrite bool) (exporters.ExportResult, error)
}

type ExportController struct {
	exporter Exporter
}

func NewExportController(exporter Exporter) *ExportController {
	return &ExportController{exporter: exporter}
}

// Export writes every entity into the export directory and streams the file back.
// GET /api/export?format=csv|json|db&bundling=combined|per-entity
func (ec *ExportController) Export(c *gin.Context) {
	format, err := exporters.ParseFormat(c.DefaultQuery("format", string(exporters.FormatCSV)))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unknown_format", err.Error())
		return
	}
	bundling, err := exporters.ParseBundling(c.Query("bundling"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unknown_bundling", err.Error())
		return
	}

	result, err := ec.exporter.Export(format, bundling, "")
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.FileAttachment(result.Path, filepath.Base(result.Path))
}

// Snapshot writes a standalone SQLite copy and streams it back.
// GET /api/export/snapshot
func (ec *ExportController) Snapshot(c *gin.Context) {
	result, err := ec.exporter.Snapshot("", false)
	if err != nil {
		ec.fail(c, err)
		return
	}
	c.FileAttachment(result.Path, filepath.Base(result.Path))
}

func (ec *ExportController) fail(c *gin.Context, err error) {
	if errors.Is(err, exporters.ErrAlreadyExists) {
		respondError(c, http.StatusConflict, "already_exists", "an export with this name already exists, retry in a second")
		return
	}
	respondInternalError(c, err, "export")
}
