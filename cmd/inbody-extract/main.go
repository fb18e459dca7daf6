package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/ingest"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm/openai"
	"github.com/joseph-ayodele/inbody-tracker/internal/normalize"
)

// inbody-extract runs extraction on a single photo and prints the
// normalized record without touching the database. Pass a repeat count to
// eyeball how stable the model output is across runs.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: inbody-extract <image_path> [times]")
		os.Exit(2)
	}
	imagePath := os.Args[1]
	if _, err := os.Stat(imagePath); err != nil {
		logger.Error("cannot read image", "path", imagePath, "error", err)
		os.Exit(2)
	}
	times := 1
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	fileHash, err := ingest.HashFile(imagePath)
	if err != nil {
		logger.Error("hash image", "path", imagePath, "error", err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
		LocaleHint:  cfg.LLM.LocaleHint,
	}, logger)

	base := filepath.Base(imagePath)
	req := llm.ExtractRequest{
		FilePath: imagePath,
		Filename: base,
		FileHash: fileHash,
	}

	for i := 1; i <= times; i++ {
		runCtx, cancelRun := context.WithTimeout(context.Background(), 2*time.Minute)
		start := time.Now()
		logger.Info("extract.run.start", "iter", i, "file", base, "file_hash", fileHash)

		fields, raw, err := client.ExtractScan(runCtx, req)
		cancelRun()
		if err != nil {
			logger.Error("extract.run.error", "iter", i, "error", err)
			sleepBetween(i, times)
			continue
		}

		rec, err := normalize.ToScanRecord(fields, fileHash, base, raw)
		if err != nil {
			logger.Error("extract.run.invalid", "iter", i, "error", err)
			sleepBetween(i, times)
			continue
		}

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			logger.Error("extract.run.encode_error", "iter", i, "error", err)
			sleepBetween(i, times)
			continue
		}
		fmt.Println(string(out))
		logger.Info("extract.run.ok", "iter", i, "elapsed_ms", time.Since(start).Milliseconds())
		sleepBetween(i, times)
	}

	logger.Info("done", "file", base, "times", times)
}

func sleepBetween(i, times int) {
	if i < times {
		time.Sleep(750 * time.Millisecond)
	}
}
