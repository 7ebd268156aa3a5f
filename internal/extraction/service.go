// Package extraction composes image loading, prompt construction, the
// completion transport and response interpretation into the one call the
// entry form makes. Extract is total: every invocation yields a result
// with all nine label fields present, and no failure escapes the boundary.
package extraction

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/c-trac/torquebench/internal/common"
	"github.com/c-trac/torquebench/internal/llm"
)

// Result is what the caller gets back. Fields always carries the nine
// canonical keys; when Err is non-nil they are all empty. Err is metadata
// about why a result is empty, not something the caller must handle —
// the diagnostic log is the operational signal.
type Result struct {
	Fields llm.LabelFields
	Stage  llm.Stage // which parse attempt produced the candidate
	Raw    string    // raw model reply, for diagnostics
	Err    error
}

type Service struct {
	completer llm.Completer
	log       *slog.Logger
}

func NewService(completer llm.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: completer, log: logger}
}

// Extract runs the full pipeline for one label image. A missing or
// unreadable file is reported without dispatching any request; a
// transport failure or garbled reply degrades to the all-empty result.
// There is no path out of this method that raises.
func (s *Service) Extract(ctx context.Context, imagePath string) Result {
	start := time.Now()

	dataURL, mimeType, err := llm.ReadAsDataURL(imagePath)
	if err != nil {
		s.log.Error("extract.image_error", "path", imagePath, "error", err)
		return Result{
			Fields: llm.ProjectFields(nil),
			Stage:  llm.StageEmpty,
			Err:    common.NewAppError("IMAGE_READ", "cannot read label image", err),
		}
	}

	messages := llm.BuildMessages(dataURL)
	raw, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.log.Error("extract.transport_error",
			"path", imagePath,
			"mime_type", mimeType,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{
			Fields: llm.ProjectFields(nil),
			Stage:  llm.StageEmpty,
			Err:    common.NewAppError("TRANSPORT", "completion request failed", err),
		}
	}

	interp := llm.InterpretResponse(raw)
	s.sanitizeIfNeeded(interp.Candidate)
	fields := llm.ProjectFields(interp.Candidate)

	s.log.Info("extract.ok",
		"path", imagePath,
		"mime_type", mimeType,
		"stage", string(interp.Stage),
		"keys", len(interp.Candidate),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Fields: fields, Stage: interp.Stage, Raw: raw}
}

// sanitizeIfNeeded runs the lenient normalization pass when the candidate
// does not already match the strict nine-key schema. Projection tolerates
// anything, so this only exists to rescue values hiding behind synonym
// keys or numeric types, and to make the drift observable in the log.
func (s *Service) sanitizeIfNeeded(candidate map[string]any) {
	if len(candidate) == 0 {
		return
	}
	b, err := json.Marshal(candidate)
	if err != nil {
		return
	}
	if err := llm.ValidateJSONAgainstSchema(llm.BuildLabelJSONSchema(), b); err != nil {
		s.log.Warn("extract.schema_mismatch", "error", err)
		llm.NormalizeAndSanitizeCandidate(candidate, s.log)
	}
}
