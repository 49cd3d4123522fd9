package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/skillprobe/skillprobe-backend/internal/config"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// Queue pushes freshly generated questions onto the persistence queue
// consumed by QuestionPersistWorker.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a new Queue.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Enqueue serializes questions and pushes them onto the queue in one
// pipeline.
func (q *Queue) Enqueue(ctx context.Context, mcqs ...model.MCQ) error {
	if len(mcqs) == 0 {
		return nil
	}
	pipe := q.rdb.Pipeline()
	for _, m := range mcqs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, config.WorkerKey.PersistQuestionsQueue, data)
	}
	_, err := pipe.Exec(ctx)
	return err
}
