package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/shiptrack/pkg/application/dto"
	"github.com/vsinha/shiptrack/pkg/application/services/report"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// ErrExportFailed wraps every failure raised while producing an export
var ErrExportFailed = errors.New("export failed")

// Exporter turns a workbook into a named artifact. Failures, including panics inside a
// writer, come back as errors wrapping ErrExportFailed and never leave a partial file.
type Exporter struct {
	writer Writer
	now    func() time.Time
}

// NewExporter creates an exporter for the given format
func NewExporter(format Format) (*Exporter, error) {
	writer, err := NewWriter(format)
	if err != nil {
		return nil, err
	}
	return &Exporter{writer: writer, now: time.Now}, nil
}

// FileName is the artifact name for today's export
func (e *Exporter) FileName() string {
	return report.FileName(entities.DateOf(e.now()), e.writer.Extension())
}

// ContentType is the MIME type of the artifact
func (e *Exporter) ContentType() string {
	return e.writer.ContentType()
}

// Render serializes the workbook fully in memory
func (e *Exporter) Render(ctx context.Context, wb *dto.Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.write(ctx, wb, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportToDir writes the workbook into dir under FileName and returns the final path.
// The data goes to a temporary file in dir first and is renamed into place only once
// complete, so a failed or cancelled export leaves nothing behind.
func (e *Exporter) ExportToDir(ctx context.Context, wb *dto.Workbook, dir string) (string, error) {
	name := e.FileName()
	final := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrExportFailed, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if err := e.write(ctx, wb, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close temp file: %w", ErrExportFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("%w: move into place: %w", ErrExportFailed, err)
	}
	committed = true

	log.Info().Str("file", final).Str("sheets", report.Describe(wb)).Msg("Export written")
	return final, nil
}

func (e *Exporter) write(ctx context.Context, wb *dto.Workbook, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExportFailed, r)
		}
	}()

	if wb == nil {
		return fmt.Errorf("%w: no workbook", ErrExportFailed)
	}
	if err := e.writer.Write(ctx, wb, w); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
