package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"
	// QueueEmailDead holds delivery failures for manual replay. The shop has
	// exactly one async job kind, so one dead list is enough.
	QueueEmailDead = QueueEmail + ":dead"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. A nil *Dispatcher is valid: callers nil-check and fall back
// to doing the work synchronously, so Redis stays optional.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, emailWorker *EmailWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, emailWorker)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, emailWorker *EmailWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, emailWorker, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, emailWorker *EmailWorker, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch job.Type {
	case "email":
		if err := emailWorker.Process(ctx, job.Payload); err != nil {
			deadLetter(ctx, rdb, job, err)
		}
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
	}
}

// deadJob is a failed job plus enough context to replay it by hand.
type deadJob struct {
	Job      Job    `json:"job"`
	Reason   string `json:"reason"`
	FailedAt string `json:"failed_at"`
}

func deadLetter(ctx context.Context, rdb *redis.Client, job Job, cause error) {
	entry := deadJob{
		Job:      job,
		Reason:   cause.Error(),
		FailedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("dead letter marshal failed")
		return
	}
	if err := rdb.LPush(ctx, QueueEmailDead, data).Err(); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("dead letter push failed")
		return
	}
	log.Warn().Str("type", job.Type).Str("reason", cause.Error()).Msg("job moved to dead letter list")
}

// DeadLetterCount reports how many failed emails await inspection.
func DeadLetterCount(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, QueueEmailDead).Result()
}
