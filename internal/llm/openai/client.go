package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm"
)

// ExtractScan implements llm.FieldExtractor against the OpenAI-compatible
// chat completions API. The scan photo is attached as a base64 data URL and
// the response is constrained by a structured-output JSON schema. One call
// per file, no retries: a failed extraction is recorded by the caller and
// the batch moves on.
func (c *Client) ExtractScan(ctx context.Context, req llm.ExtractRequest) (llm.ScanFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	if req.LocaleHint == "" {
		req.LocaleHint = c.cfg.LocaleHint
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"file", req.Filename,
		"file_hash", req.FileHash,
	)

	dataURL, mimeType, err := llm.ReadAsDataURL(req.FilePath)
	if err != nil {
		c.logger.Error("llm.extract.read_image_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ScanFields{}, nil, common.NewAppError("EXTRACTION_FAILED", fmt.Sprintf("read image %s", req.Filename), err)
	}

	schema := llm.BuildScanJSONSchema()
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "inbody_result",
				"schema": schema,
			},
		},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(req)},
			{"role": "user", "content": []map[string]any{
				{"type": "text", "text": llm.BuildUserPrompt(req)},
				{"type": "image_url", "image_url": map[string]any{"url": dataURL, "detail": "high"}},
			}},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	c.logger.Debug("llm.extract.request", "req_id", rid, "endpoint", endpoint, "mime_type", mimeType)

	raw, status, httpErr := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.logger)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "status", status, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if status > 0 {
			return llm.ScanFields{}, raw, common.NewAppError("EXTRACTION_FAILED",
				fmt.Sprintf("openai status %d: %s", status, snippet(raw, 300)), common.ErrExtraction)
		}
		return llm.ScanFields{}, nil, common.NewAppError("EXTRACTION_FAILED", "chat completion request failed", httpErr)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ScanFields{}, raw, common.NewAppError("EXTRACTION_FAILED", "decode openai response", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", snippet(raw, 300),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ScanFields{}, raw, common.NewAppError("EXTRACTION_FAILED", "no choices in openai response", common.ErrExtraction)
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return llm.ScanFields{}, raw, common.NewAppError("EXTRACTION_FAILED", "empty response content", common.ErrExtraction)
	}
	rawContent := []byte(content)
	cleaned, _ := llm.SanitizeModelJSON(rawContent, c.logger)

	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", snippet(rawContent, 300),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ScanFields{}, rawContent, common.NewAppError("VALIDATION_FAILED", "response does not match schema", err)
	}

	var out llm.ScanFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ScanFields{}, rawContent, common.NewAppError("EXTRACTION_FAILED", "unmarshal fields", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"file", req.Filename,
		"scan_date", strValue(out.ScanDate),
		"has_weight", out.Weight != nil,
		"has_height", out.Height != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

func snippet(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
