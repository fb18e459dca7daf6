package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/ingest"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm"
	"github.com/joseph-ayodele/inbody-tracker/internal/normalize"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

// Processor coordinates hash → cache check → extract → normalize → store
// for every scan photo in a folder.
type Processor struct {
	store     repository.ScanStore
	extractor llm.FieldExtractor
	logger    *slog.Logger
}

func NewProcessor(store repository.ScanStore, extractor llm.FieldExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, extractor: extractor, logger: logger}
}

// ProcessFolder runs the ingestion pipeline over every scan photo directly
// inside folder. Files whose content hash already has a successful result
// are skipped unless force is set. A failed file is recorded and the batch
// moves on; the only fatal errors are an unusable folder, an unavailable
// store, and context cancellation, which stops after the current file.
func (p *Processor) ProcessFolder(ctx context.Context, folder string, force bool) (entity.RunStats, error) {
	var stats entity.RunStats

	paths, err := ingest.ListImages(folder)
	if err != nil {
		return stats, err
	}
	stats.TotalFiles = len(paths)

	p.logger.Info("batch.scan.start", "folder", folder, "files", len(paths), "force", force)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("batch.scan.interrupted", "processed", i, "total", len(paths))
			return stats, err
		}
		filename := filepath.Base(path)

		fileHash, err := ingest.HashFile(path)
		if err != nil {
			p.logger.Error("batch.file.hash_failed", "file", filename, "error", err)
			stats.Failed++
			continue
		}

		if !force {
			done, err := p.store.HasSucceeded(ctx, fileHash)
			if err != nil {
				return stats, err
			}
			if done {
				p.logger.Info("batch.file.skipped", "file", filename, "file_hash", fileHash)
				stats.Skipped++
				continue
			}
		}

		p.logger.Info("batch.file.start", "file", filename, "index", i+1, "total", len(paths))

		rec, exErr := p.extractOne(ctx, path, filename, fileHash)
		attemptedAt := time.Now().UTC()
		if exErr != nil {
			p.logger.Error("batch.file.failed", "file", filename, "error", exErr)
			msg := exErr.Error()
			entry := &entity.ProcessingEntry{
				FileHash:       fileHash,
				SourceFilename: filename,
				AttemptedAt:    attemptedAt,
				Succeeded:      false,
				ErrorMessage:   &msg,
			}
			if err := p.store.RecordAttempt(ctx, entry); err != nil {
				p.logger.Error("batch.file.record_failed", "file", filename, "error", err)
			}
			stats.Failed++
			continue
		}

		entry := &entity.ProcessingEntry{
			FileHash:       fileHash,
			SourceFilename: filename,
			AttemptedAt:    attemptedAt,
			Succeeded:      true,
		}
		if err := p.store.SaveOutcome(ctx, entry, rec); err != nil {
			p.logger.Error("batch.file.save_failed", "file", filename, "error", err)
			stats.Failed++
			continue
		}

		p.logger.Info("batch.file.ok", "file", filename, "file_hash", fileHash)
		stats.Succeeded++
	}

	p.logger.Info("batch.scan.done",
		"total", stats.TotalFiles,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

func (p *Processor) extractOne(ctx context.Context, path, filename, fileHash string) (*entity.ScanRecord, error) {
	fields, raw, err := p.extractor.ExtractScan(ctx, llm.ExtractRequest{
		FilePath: path,
		Filename: filename,
		FileHash: fileHash,
	})
	if err != nil {
		return nil, err
	}
	return normalize.ToScanRecord(fields, fileHash, filename, raw)
}
