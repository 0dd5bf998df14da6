package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/budget-tracker/internal/importers"
	"github.com/mrlokans/budget-tracker/internal/schema"
	"github.com/mrlokans/budget-tracker/internal/utils"
)

// Maximum file size for uploads (50 MB)
const maxImportFileSize = 50 * 1024 * 1024

// Importer reads interchange files and merges them into the store.
type Importer interface {
	Import(path string) (importers.ImportResult, error)
	Apply(tables schema.Tables) importers.Report
}

type ImportController struct {
	importer Importer
}

func NewImportController(importer Importer) *ImportController {
	return &ImportController{importer: importer}
}

type ImportResponse struct {
	Success  bool                  `json:"success"`
	Kind     importers.Kind        `json:"kind"`
	Records  map[schema.Entity]int `json:"records"`
	Applied  bool                  `json:"applied"`
	BatchID  string                `json:"batch_id,omitempty"`
	Inserted map[schema.Entity]int `json:"inserted,omitempty"`
	Errors   []string              `json:"errors,omitempty"`
}

// Import accepts a multipart upload in any supported shape. With apply=false
// the file is only parsed and counted.
// POST /api/import
func (ic *ImportController) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportFileSize)

	apply, ok := parseBoolQuery(c, "apply", true)
	if !ok {
		return
	}

	tempDir, err := os.MkdirTemp("", "budget-import-*")
	if err != nil {
		respondInternalError(c, err, "import temp dir")
		return
	}
	defer os.RemoveAll(tempDir)

	path, err := saveUpload(c, "file", tempDir)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := ic.importer.Import(path)
	switch {
	case errors.Is(err, importers.ErrUnrecognizedFormat):
		respondError(c, http.StatusUnprocessableEntity, "unrecognized_format", "unrecognized file format")
		return
	case err != nil:
		respondError(c, http.StatusUnprocessableEntity, "unreadable", fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	resp := ImportResponse{
		Success: true,
		Kind:    result.Source.Kind,
		Records: result.Tables.Counts(),
	}
	if apply {
		report := ic.importer.Apply(result.Tables)
		resp.Applied = true
		resp.BatchID = report.BatchID
		resp.Inserted = report.Inserted
		resp.Errors = report.ErrorMessages()
	}
	c.JSON(http.StatusOK, resp)
}

// saveUpload copies a form file into dir, keeping its base name so that
// format detection can still use the extension.
func saveUpload(c *gin.Context, field, dir string) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("no %s provided", field)
	}
	defer file.Close()

	dest := filepath.Join(dir, utils.SanitizeFilename(header.Filename))

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return dest, out.Close()
}
