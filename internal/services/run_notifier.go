package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/protocol-clarity-backend/internal/clients/redis"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
)

// Event names mirrored on the redis run channel.
const (
	RunEventStarted   = "run_started"
	RunEventChunkDone = "chunk_done"
	RunEventFinished  = "run_finished"
)

type RunNotifier interface {
	RunStarted(ctx context.Context, runID uuid.UUID)
	ChunkDone(ctx context.Context, runID, chunkID uuid.UUID, outcome, strategy string)
	RunFinished(ctx context.Context, runID uuid.UUID)
}

type redisRunNotifier struct {
	bus redis.RunBus
	log *logger.Logger
}

func NewRedisRunNotifier(bus redis.RunBus, log *logger.Logger) RunNotifier {
	return &redisRunNotifier{bus: bus, log: log.With("service", "RunNotifier")}
}

func (n *redisRunNotifier) publish(ctx context.Context, ev redis.RunEvent) {
	ev.Timestamp = time.Now().UTC()
	if err := n.bus.Publish(ctx, ev); err != nil {
		// Progress events are advisory; a run never fails because of them.
		n.log.Warn("run event publish failed", "event", ev.Event, "error", err)
	}
}

func (n *redisRunNotifier) RunStarted(ctx context.Context, runID uuid.UUID) {
	n.publish(ctx, redis.RunEvent{RunID: runID.String(), Event: RunEventStarted})
}

func (n *redisRunNotifier) ChunkDone(ctx context.Context, runID, chunkID uuid.UUID, outcome, strategy string) {
	n.publish(ctx, redis.RunEvent{
		RunID:    runID.String(),
		Event:    RunEventChunkDone,
		ChunkID:  chunkID.String(),
		Outcome:  outcome,
		Strategy: strategy,
	})
}

func (n *redisRunNotifier) RunFinished(ctx context.Context, runID uuid.UUID) {
	n.publish(ctx, redis.RunEvent{RunID: runID.String(), Event: RunEventFinished})
}

// NopRunNotifier is used when REDIS_ADDR is unset (local runs, tests).
type NopRunNotifier struct{}

func (NopRunNotifier) RunStarted(ctx context.Context, runID uuid.UUID) {}
func (NopRunNotifier) ChunkDone(ctx context.Context, runID, chunkID uuid.UUID, outcome, strategy string) {
}
func (NopRunNotifier) RunFinished(ctx context.Context, runID uuid.UUID) {}
