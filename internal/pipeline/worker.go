package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/sustainparse/internal/analysis"
	"github.com/dgallion1/sustainparse/internal/assets"
	"github.com/dgallion1/sustainparse/internal/config"
	"github.com/dgallion1/sustainparse/internal/export"
	"github.com/dgallion1/sustainparse/internal/outline"
	"github.com/dgallion1/sustainparse/internal/pdfdoc"
	"github.com/dgallion1/sustainparse/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	store *store.Store
	log   *slog.Logger

	outlineCfg  outline.Config
	analysisCfg analysis.Config

	exportDir      string
	extractFigures bool
}

func NewWorker(cfg config.Config, st *store.Store, log *slog.Logger) *Worker {
	return &Worker{
		store:          st,
		log:            log,
		outlineCfg:     cfg.OutlineConfig(),
		analysisCfg:    cfg.AnalysisConfig(),
		exportDir:      cfg.ExportDir,
		extractFigures: cfg.ExtractFigures,
	}
}

// Process runs the full parse pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse. The PDF readers want a file on disk.
	job.SetStatus(StatusParsing, "parsing")
	pdfPath, cleanup, err := w.spool(job)
	if err != nil {
		log.Error("spool failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	defer cleanup()

	doc, err := pdfdoc.Open(pdfPath)
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(fmt.Sprintf("open: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	res, err := outline.Parse(doc, w.outlineCfg)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.SetOutcome(res.PageCount, len(res.Sections), res.Strategy)
	log.Info("parsed document", "strategy", res.Strategy, "pages", res.PageCount, "sections", len(res.Sections))

	// Phase 2: Analyze.
	job.SetStatus(StatusAnalyzing, "analyzing")
	report := analysis.Analyze(res.Records(), w.analysisCfg)

	// Phase 3: Store.
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.SaveResult(ctx, job.DocID, job.Filename, res); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	// Phase 4: Export.
	job.SetStatus(StatusExporting, "exporting")
	outDir := filepath.Join(w.exportDir, job.DocID)
	pages := make([]string, 0, doc.PageCount())
	for p := 1; p <= doc.PageCount(); p++ {
		pages = append(pages, doc.PageText(p))
	}
	if _, err := export.WriteAll(outDir, res, pages); err != nil {
		log.Error("export failed", "error", err)
		job.AddError(fmt.Sprintf("export: %s", err))
		job.SetStatus(StatusFailed, "exporting")
		return
	}
	if err := writeAnalysis(outDir, report); err != nil {
		log.Error("analysis export failed", "error", err)
		job.AddError(fmt.Sprintf("export: %s", err))
		job.SetStatus(StatusFailed, "exporting")
		return
	}

	// Figure extraction is best-effort: a scan-heavy PDF can fail here
	// without invalidating the parse.
	if w.extractFigures {
		figs, err := assets.ExtractFigures(pdfPath, filepath.Join(outDir, "figures"))
		if err != nil {
			log.Warn("figure extraction failed", "error", err)
			job.AddError(fmt.Sprintf("figures: %s", err))
		} else {
			job.SetFigures(len(figs))
		}
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "sections", len(res.Sections))
}

// spool writes the uploaded bytes to a temp file and returns its path with a
// cleanup func.
func (w *Worker) spool(job *Job) (string, func(), error) {
	f, err := os.CreateTemp("", "sustainparse-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("spool upload: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(job.FileData()); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("spool upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("spool upload: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}

const analysisFile = "analysis.json"

func writeAnalysis(dir string, report *analysis.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, analysisFile), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write analysis: %w", err)
	}
	return nil
}
