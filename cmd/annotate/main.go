package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/yungbote/protocol-clarity-backend/internal/clients/redis"
	"github.com/yungbote/protocol-clarity-backend/internal/config"
	"github.com/yungbote/protocol-clarity-backend/internal/data/db"
	"github.com/yungbote/protocol-clarity-backend/internal/data/repos"
	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	"github.com/yungbote/protocol-clarity-backend/internal/glossary"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
	"github.com/yungbote/protocol-clarity-backend/internal/services"
	"github.com/yungbote/protocol-clarity-backend/internal/utils"
)

func main() {
	var (
		glossaryPath string
		category     string
		limit        int
		workers      int
		dryRun       bool
		follow       bool
	)
	flag.StringVar(&glossaryPath, "glossary", "", "glossary JSON file to import before the run")
	flag.StringVar(&category, "category", "", "only annotate chunks in this category")
	flag.IntVar(&limit, "limit", 0, "limit number of chunks processed")
	flag.IntVar(&workers, "workers", 0, "worker pool size (default 4)")
	flag.BoolVar(&dryRun, "dry-run", false, "compute and report without writing chunk changes")
	flag.BoolVar(&follow, "follow", false, "tail run events from redis instead of starting a run")
	flag.Parse()

	log, err := logger.New(os.Getenv("APP_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if follow {
		if err := followRuns(log); err != nil {
			log.Fatal("follow run events", "error", err)
		}
		return
	}

	cfg, err := config.LoadEngine(log)
	if err != nil {
		log.Fatal("load engine config", "error", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("connect postgres", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("migrate", "error", err)
	}

	termRepo := repos.NewGlossaryTermRepo(pg.DB(), log)
	chunkRepo := repos.NewKnowledgeChunkRepo(pg.DB(), log)
	runRepo := repos.NewAnnotationRunRepo(pg.DB(), log)

	ctx := context.Background()

	if glossaryPath != "" {
		if err := importGlossary(ctx, log, termRepo, glossaryPath); err != nil {
			log.Fatal("import glossary", "path", glossaryPath, "error", err)
		}
	}

	stored, err := termRepo.GetAll(ctx, nil)
	if err != nil {
		log.Fatal("load glossary terms", "error", err)
	}
	if len(stored) == 0 {
		log.Fatal("glossary is empty; import one with -glossary")
	}
	matcher := glossary.NewMatcher(toEntries(stored))
	log.Info("glossary loaded", "terms", len(stored))

	notifier := buildNotifier(log)

	annotation := services.NewAnnotationService(chunkRepo, matcher, cfg, log)
	batch := services.NewBatchService(chunkRepo, runRepo, annotation, notifier, cfg, log)

	report, err := batch.Run(ctx, services.BatchOptions{
		Category: category,
		Limit:    limit,
		Workers:  workers,
		DryRun:   dryRun,
	})
	if err != nil {
		log.Fatal("annotation run failed", "error", err)
	}

	printReport(report)
	if report.Unresolved > 0 || report.Errors > 0 {
		os.Exit(1)
	}
}

func importGlossary(ctx context.Context, log *logger.Logger, termRepo repos.GlossaryTermRepo, path string) error {
	entries, recordErrs, err := glossary.LoadFile(path)
	if err != nil {
		return err
	}
	for _, re := range recordErrs {
		log.Warn("skipped malformed glossary record", "error", re)
	}
	kept, dropped := glossary.Deduplicate(entries)
	if dropped > 0 {
		log.Info("glossary deduplicated", "kept", len(kept), "dropped", dropped)
	}

	rows := make([]*types.GlossaryTerm, 0, len(kept))
	for _, e := range kept {
		rows = append(rows, &types.GlossaryTerm{
			Term:               e.Term,
			UserFriendly:       e.Definition,
			ClinicalDefinition: e.ClinicalDefinition,
			Category:           e.Category,
			Analogy:            e.Analogy,
			WhyItMatters:       e.WhyItMatters,
			ExampleSentence:    e.ExampleSentence,
			ReadingLevel:       e.ReadingLevel,
			SourceCount:        e.SourceCount,
		})
	}
	_, err = termRepo.UpsertBatch(ctx, nil, rows)
	return err
}

func toEntries(rows []*types.GlossaryTerm) []glossary.Entry {
	entries := make([]glossary.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, glossary.Entry{
			Term:               r.Term,
			Definition:         r.UserFriendly,
			ClinicalDefinition: r.ClinicalDefinition,
			Category:           r.Category,
			Analogy:            r.Analogy,
			WhyItMatters:       r.WhyItMatters,
			ExampleSentence:    r.ExampleSentence,
			ReadingLevel:       r.ReadingLevel,
		})
	}
	return entries
}

// followRuns subscribes to the run event channel and prints each event until
// interrupted. Lets a second terminal watch a batch another process started.
func followRuns(log *logger.Logger) error {
	bus, err := redis.NewRunBus(log)
	if err != nil {
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bus.StartForwarder(ctx, func(ev redis.RunEvent) {
		fmt.Println(formatRunEvent(ev))
	}); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func formatRunEvent(ev redis.RunEvent) string {
	line := fmt.Sprintf("%s run=%s event=%s",
		ev.Timestamp.Format("15:04:05"), ev.RunID, ev.Event)
	if ev.ChunkID != "" {
		line += " chunk=" + ev.ChunkID
	}
	if ev.Outcome != "" {
		line += " outcome=" + ev.Outcome
	}
	if ev.Strategy != "" {
		line += " strategy=" + ev.Strategy
	}
	return line
}

func buildNotifier(log *logger.Logger) services.RunNotifier {
	if strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log)) == "" {
		return services.NopRunNotifier{}
	}
	bus, err := redis.NewRunBus(log)
	if err != nil {
		log.Warn("redis unavailable, run events disabled", "error", err)
		return services.NopRunNotifier{}
	}
	return services.NewRedisRunNotifier(bus, log)
}

func printReport(report *services.BatchReport) {
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Printf("run %s%s: %d chunks, %d tooltips\n",
		report.RunID, mode, report.TotalDocuments, report.TooltipsInjected)
	fmt.Printf("  accepted=%d repaired=%d reverted=%d unresolved=%d errors=%d\n",
		report.Accepted, report.Repaired, report.Reverted, report.Unresolved, report.Errors)
	fmt.Printf("  avg grade level: %.2f -> %.2f\n",
		report.AvgGradeBefore, report.AvgGradeAfter)
	for _, r := range report.Results {
		if r.Outcome == types.OutcomeUnresolved || r.Error != "" {
			fmt.Printf("  needs review: chunk=%s source=%s priority=%d outcome=%s error=%s\n",
				r.ChunkID, r.SourceFile, r.Priority, r.Outcome, r.Error)
		}
	}
}
