package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/config"
	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/repository"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// QuestionPersistWorker drains generated questions off the Redis queue and
// writes them into the durable question pool, so questions synthesized for
// one session become bank questions for the next.
type QuestionPersistWorker struct {
	mcqs *repository.MCQRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewQuestionPersistWorker creates a new QuestionPersistWorker.
func NewQuestionPersistWorker(mcqs *repository.MCQRepository, rdb *redis.Client, log zerolog.Logger) *QuestionPersistWorker {
	return &QuestionPersistWorker{
		mcqs: mcqs,
		rdb:  rdb,
		log:  log.With().Str("component", "question_persist_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; returns when ctx is
// cancelled, after flushing the in-memory buffer.
func (w *QuestionPersistWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	buffer := make([]model.MCQ, 0, BatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlush) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlush = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistQuestionsQueue).Result()
		if err != nil {
			if err == redis.Nil {
				continue // Queue empty, loop back to check flush timer
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var mcq model.MCQ
		if err := json.Unmarshal([]byte(result[1]), &mcq); err != nil {
			// Malformed JSON cannot be retried. Log and discard.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}

		buffer = append(buffer, mcq)
	}
}

// flushSafe attempts a bulk copy, falling back to row-by-row inserts with
// requeue on failure.
func (w *QuestionPersistWorker) flushSafe(ctx context.Context, batch []model.MCQ) {
	if _, err := w.mcqs.CreateBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *QuestionPersistWorker) fallbackInsert(ctx context.Context, batch []model.MCQ) {
	requeueList := make([]model.MCQ, 0)

	for i := range batch {
		if err := w.mcqs.Create(ctx, &batch[i]); err != nil {
			w.log.Error().Err(err).Str("mcq_id", batch[i].MCQID).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, batch[i])
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *QuestionPersistWorker) requeue(ctx context.Context, items []model.MCQ) {
	pipe := w.rdb.Pipeline()
	for _, m := range items {
		data, _ := json.Marshal(m)
		pipe.RPush(ctx, config.WorkerKey.PersistQuestionsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
	} else {
		w.log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")
		time.Sleep(2 * time.Second)
	}
}

func (w *QuestionPersistWorker) shutdown(buffer []model.MCQ) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
