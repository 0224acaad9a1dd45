package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/data/repos"
	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
	"github.com/yungbote/protocol-clarity-backend/internal/readability"
)

// BatchOptions narrow a run. The zero value processes every pending chunk
// with a default worker pool.
type BatchOptions struct {
	Category string
	Limit    int
	Workers  int
	DryRun   bool
}

// BatchReport is the in-memory form of one finished run.
type BatchReport struct {
	RunID   uuid.UUID     `json:"run_id"`
	DryRun  bool          `json:"dry_run"`
	Results []ChunkResult `json:"results"`

	TotalDocuments   int `json:"total_documents"`
	TooltipsInjected int `json:"tooltips_injected"`
	Accepted         int `json:"accepted"`
	Repaired         int `json:"repaired"`
	Reverted         int `json:"reverted"`
	Unresolved       int `json:"unresolved"`
	Errors           int `json:"errors"`

	AvgGradeBefore float64 `json:"avg_grade_before"`
	AvgGradeAfter  float64 `json:"avg_grade_after"`

	ValidationErrors []string `json:"validation_errors,omitempty"`
}

type BatchService interface {
	// Run annotates every pending chunk under the given options and stores
	// the aggregate report. Per-chunk failures are recorded, not fatal; Run
	// only errors when it cannot list chunks or write the report.
	Run(ctx context.Context, opts BatchOptions) (*BatchReport, error)
}

type batchService struct {
	chunks     repos.KnowledgeChunkRepo
	runs       repos.AnnotationRunRepo
	annotation AnnotationService
	notifier   RunNotifier
	cfg        config.Engine
	log        *logger.Logger
}

func NewBatchService(
	chunks repos.KnowledgeChunkRepo,
	runs repos.AnnotationRunRepo,
	annotation AnnotationService,
	notifier RunNotifier,
	cfg config.Engine,
	baseLog *logger.Logger,
) BatchService {
	if notifier == nil {
		notifier = NopRunNotifier{}
	}
	return &batchService{
		chunks:     chunks,
		runs:       runs,
		annotation: annotation,
		notifier:   notifier,
		cfg:        cfg,
		log:        baseLog.With("service", "BatchService"),
	}
}

const defaultWorkers = 4

func (s *batchService) Run(ctx context.Context, opts BatchOptions) (*BatchReport, error) {
	pending, err := s.chunks.ListPending(ctx, nil, opts.Category, opts.Limit)
	if err != nil {
		return nil, err
	}

	run, err := s.runs.Create(ctx, nil, &types.AnnotationRun{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.RunStarted(ctx, run.ID)
	s.log.Info("annotation run started",
		"run_id", run.ID, "chunks", len(pending), "dry_run", opts.DryRun)

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		mu      sync.Mutex
		results = make([]ChunkResult, 0, len(pending))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, chunk := range pending {
		chunk := chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := s.annotation.AnnotateChunk(gctx, chunk, opts.DryRun)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			s.notifier.ChunkDone(gctx, run.ID, chunk.ID, res.Outcome, res.Strategy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Cancellation; report what finished.
		s.log.Warn("annotation run interrupted", "run_id", run.ID, "error", err)
	}

	report := s.aggregate(run.ID, opts.DryRun, results)
	if err := s.persistReport(ctx, report); err != nil {
		return nil, err
	}
	s.notifier.RunFinished(ctx, run.ID)
	s.log.Info("annotation run finished",
		"run_id", run.ID,
		"accepted", report.Accepted,
		"repaired", report.Repaired,
		"reverted", report.Reverted,
		"unresolved", report.Unresolved,
		"errors", report.Errors,
		"avg_grade_before", report.AvgGradeBefore,
		"avg_grade_after", report.AvgGradeAfter,
	)
	return report, nil
}

func (s *batchService) aggregate(runID uuid.UUID, dryRun bool, results []ChunkResult) *BatchReport {
	report := &BatchReport{
		RunID:          runID,
		DryRun:         dryRun,
		Results:        results,
		TotalDocuments: len(results),
	}

	var sumBefore, sumAfter float64
	for _, r := range results {
		report.TooltipsInjected += r.Tooltips
		sumBefore += r.GradeBefore
		sumAfter += r.GradeAfter
		switch r.Outcome {
		case types.OutcomeAccepted:
			report.Accepted++
		case types.OutcomeRepaired:
			report.Repaired++
		case types.OutcomeReverted:
			report.Reverted++
		case types.OutcomeUnresolved:
			report.Unresolved++
		default:
			report.Errors++
		}
		if r.Error != "" {
			report.ValidationErrors = append(report.ValidationErrors, r.Error)
		}
	}
	if n := len(results); n > 0 {
		report.AvgGradeBefore = readability.Round2(sumBefore / float64(n))
		report.AvgGradeAfter = readability.Round2(sumAfter / float64(n))
	}

	// Highest simplification priority first, so the report leads with the
	// chunks that most need a human look.
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Priority > report.Results[j].Priority
	})
	return report
}

func (s *batchService) persistReport(ctx context.Context, report *BatchReport) error {
	detail, err := json.Marshal(report.Results)
	if err != nil {
		detail = []byte("[]")
	}
	verrs, err := json.Marshal(report.ValidationErrors)
	if err != nil || report.ValidationErrors == nil {
		verrs = []byte("[]")
	}
	return s.runs.UpdateFields(ctx, nil, report.RunID, map[string]interface{}{
		"finished_at":            time.Now().UTC(),
		"total_documents":        report.TotalDocuments,
		"tooltips_injected":      report.TooltipsInjected,
		"accepted_count":         report.Accepted,
		"repaired_count":         report.Repaired,
		"reverted_count":         report.Reverted,
		"unresolved_count":       report.Unresolved,
		"error_count":            report.Errors,
		"avg_grade_level_before": report.AvgGradeBefore,
		"avg_grade_level_after":  report.AvgGradeAfter,
		"validation_errors":      datatypes.JSON(verrs),
		"detail":                 datatypes.JSON(detail),
	})
}
