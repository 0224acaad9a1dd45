package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/protocol-clarity-backend/internal/annotate"
	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/data/repos"
	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	"github.com/yungbote/protocol-clarity-backend/internal/glossary"
	pkgerrors "github.com/yungbote/protocol-clarity-backend/internal/pkg/errors"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
	"github.com/yungbote/protocol-clarity-backend/internal/readability"
	"github.com/yungbote/protocol-clarity-backend/internal/repair"
)

// ChunkResult is the terminal record for one chunk in a run.
type ChunkResult struct {
	ChunkID     uuid.UUID `json:"chunk_id"`
	SourceFile  string    `json:"source_file"`
	Outcome     string    `json:"outcome"`
	Strategy    string    `json:"strategy,omitempty"`
	GradeBefore float64   `json:"grade_before"`
	GradeAfter  float64   `json:"grade_after"`
	Tooltips    int       `json:"tooltips"`

	// Pre-annotation profile; Priority orders the run report so the worst
	// readers surface first.
	Level         string  `json:"level"`
	JargonDensity float64 `json:"jargon_density"`
	Priority      int     `json:"priority"`

	Error string `json:"error,omitempty"`
}

type AnnotationService interface {
	// AnnotateChunk runs the full pipeline for one chunk: score, match,
	// inject, validate, rescore, repair if degraded, persist. The stored
	// rendering never reads worse than the chunk's original text.
	AnnotateChunk(ctx context.Context, chunk *types.KnowledgeChunk, dryRun bool) ChunkResult
}

type annotationService struct {
	chunks  repos.KnowledgeChunkRepo
	matcher glossary.Matcher
	cfg     config.Engine
	log     *logger.Logger
}

func NewAnnotationService(chunks repos.KnowledgeChunkRepo, matcher glossary.Matcher, cfg config.Engine, baseLog *logger.Logger) AnnotationService {
	return &annotationService{
		chunks:  chunks,
		matcher: matcher,
		cfg:     cfg,
		log:     baseLog.With("service", "AnnotationService"),
	}
}

// annotationDraft is the computed write for a chunk before persistence.
type annotationDraft struct {
	renderedText string
	usedTerms    map[string]string
	variant      string
	gradeBefore  float64
	gradeAfter   float64
}

func (s *annotationService) AnnotateChunk(ctx context.Context, chunk *types.KnowledgeChunk, dryRun bool) ChunkResult {
	res := ChunkResult{
		ChunkID:    chunk.ID,
		SourceFile: chunk.SourceFile,
	}

	// Everything downstream derives from ChunkText, so re-running a chunk
	// always converges on the same result.
	original := chunk.ChunkText
	before := readability.ScoreText(original)
	res.GradeBefore = before.GradeLevel

	matches := s.matcher.FindAll(original)
	res.Level = readability.Categorize(before.GradeLevel, before.EaseScore)
	res.JargonDensity = readability.JargonDensity(len(matches), before.WordCount)
	res.Priority = readability.SimplificationPriority(before.GradeLevel, res.JargonDensity, chunk.DifficultyLevel, chunk.Category)

	injected := annotate.Inject(original, matches, s.cfg.MaxTooltips, annotate.DefaultWeigher(s.cfg))
	res.Tooltips = len(injected.UsedTerms)

	if len(injected.UsedTerms) == 0 {
		// Nothing to explain; the original text is already the rendering.
		res.Outcome = types.OutcomeAccepted
		res.GradeAfter = before.GradeLevel
		draft := annotationDraft{
			renderedText: original,
			usedTerms:    map[string]string{},
			variant:      types.VariantOriginal,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   before.GradeLevel,
		}
		s.finish(ctx, chunk, draft, dryRun, &res)
		return res
	}

	if err := annotate.Validate(original, injected.AnnotatedText); err != nil {
		// Malformed markup never reaches storage; the chunk keeps its
		// original text and the run report carries the error.
		s.log.Warn("annotation validation failed",
			"chunk_id", chunk.ID, "error", err)
		res.Outcome = types.OutcomeError
		res.Error = err.Error()
		res.GradeAfter = before.GradeLevel
		res.Tooltips = 0
		draft := annotationDraft{
			renderedText: original,
			usedTerms:    map[string]string{},
			variant:      types.VariantOriginal,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   before.GradeLevel,
		}
		s.finish(ctx, chunk, draft, dryRun, &res)
		return res
	}

	after := readability.ScoreText(injected.AnnotatedText)
	res.GradeAfter = after.GradeLevel

	if after.GradeLevel <= before.GradeLevel {
		res.Outcome = types.OutcomeAccepted
		draft := annotationDraft{
			renderedText: injected.AnnotatedText,
			usedTerms:    injected.UsedTerms,
			variant:      types.VariantSimplified,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   after.GradeLevel,
		}
		s.finish(ctx, chunk, draft, dryRun, &res)
		return res
	}

	// Injection degraded readability; diagnose and attempt a repair.
	d := repair.Diagnose(injected.AnnotatedText, before.GradeLevel, after.GradeLevel, s.cfg)
	out := repair.Run(original, injected.AnnotatedText, d, s.cfg)
	res.Strategy = string(out.Strategy)

	switch {
	case out.Strategy == repair.StrategyRevertToOriginal:
		res.Outcome = types.OutcomeReverted
		res.GradeAfter = before.GradeLevel
		res.Tooltips = 0
		s.finish(ctx, chunk, annotationDraft{
			renderedText: original,
			usedTerms:    map[string]string{},
			variant:      types.VariantOriginal,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   before.GradeLevel,
		}, dryRun, &res)

	case out.Resolved:
		res.Outcome = types.OutcomeRepaired
		res.GradeAfter = out.ScoreAfterRepair
		kept := annotate.ExtractTooltips(out.RepairedText)
		used := make(map[string]string, len(kept))
		for _, tip := range kept {
			used[tip.Term] = tip.Definition
		}
		res.Tooltips = len(kept)
		s.finish(ctx, chunk, annotationDraft{
			renderedText: out.RepairedText,
			usedTerms:    used,
			variant:      types.VariantSimplified,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   out.ScoreAfterRepair,
		}, dryRun, &res)

	default:
		// Unresolved: the original text stays the stored rendering so the
		// degradation never ships, and the chunk is flagged for a human.
		res.Outcome = types.OutcomeUnresolved
		res.GradeAfter = before.GradeLevel
		res.Tooltips = 0
		s.finish(ctx, chunk, annotationDraft{
			renderedText: original,
			usedTerms:    map[string]string{},
			variant:      types.VariantOriginal,
			gradeBefore:  before.GradeLevel,
			gradeAfter:   before.GradeLevel,
		}, dryRun, &res)
	}
	return res
}

// finish persists the draft unless the run is dry. A version conflict means
// another worker updated the chunk first; the result is recomputed from the
// fresh row because ChunkText never changes, so one retry per fetch is
// enough.
func (s *annotationService) finish(ctx context.Context, chunk *types.KnowledgeChunk, draft annotationDraft, dryRun bool, res *ChunkResult) {
	if dryRun {
		return
	}

	const maxAttempts = 3
	version := chunk.Version
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.chunks.UpdateAnnotated(ctx, nil, chunk.ID, version, s.updates(draft))
		if err == nil {
			return
		}
		if !errors.Is(err, pkgerrors.ErrConflict) {
			s.fail(res, fmt.Errorf("persist annotation: %w", err))
			return
		}
		fresh, ferr := s.chunks.GetByID(ctx, nil, chunk.ID)
		if ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				s.fail(res, fmt.Errorf("chunk %s vanished during run", chunk.ID))
				return
			}
			s.fail(res, fmt.Errorf("refetch chunk: %w", ferr))
			return
		}
		version = fresh.Version
	}
	s.fail(res, fmt.Errorf("persist annotation: version conflict after %d attempts", maxAttempts))
}

func (s *annotationService) updates(draft annotationDraft) map[string]interface{} {
	terms, err := json.Marshal(draft.usedTerms)
	if err != nil {
		terms = []byte("{}")
	}
	return map[string]interface{}{
		"simplified_text":      draft.renderedText,
		"glossary_terms":       datatypes.JSON(terms),
		"reading_level_before": draft.gradeBefore,
		"reading_level_after":  draft.gradeAfter,
		"language_variant":     draft.variant,
	}
}

func (s *annotationService) fail(res *ChunkResult, err error) {
	s.log.Error("chunk annotation failed", "chunk_id", res.ChunkID, "error", err)
	res.Outcome = types.OutcomeError
	if res.Error == "" {
		res.Error = err.Error()
	}
}
