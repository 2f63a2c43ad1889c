package cleanup

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/askbox/askbox/db"
	"github.com/askbox/askbox/internal/models"
	"gorm.io/gorm"
)

const (
	queueSize   = 256
	maxAttempts = 3
	retryDelay  = time.Second
)

// Worker purges engagement rows for deleted or erased questions in the
// background. Jobs are keyed by question id and Purge is idempotent, so a
// job that partially completed before a crash is safe to re-run.
type Worker struct {
	jobs   chan uint
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

var (
	defaultWorker *Worker
	mu            sync.Mutex
)

func NewWorker() *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		jobs:   make(chan uint, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *Worker) Start() {
	go w.run()
}

// Stop waits for queued jobs to finish, then shuts the worker down.
func (w *Worker) Stop() {
	w.wg.Wait()
	w.cancel()
}

// Flush blocks until every enqueued job has completed.
func (w *Worker) Flush() {
	w.wg.Wait()
}

func (w *Worker) Enqueue(questionID uint) {
	w.wg.Add(1)
	w.jobs <- questionID
}

func (w *Worker) run() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case id := <-w.jobs:
			w.purgeWithRetry(id)
		}
	}
}

func (w *Worker) purgeWithRetry(questionID uint) {
	defer w.wg.Done()

	for attempt := 1; ; attempt++ {
		err := Purge(db.DB, questionID)

		if err == nil {
			return
		}

		log.Printf("Engagement purge for question %d failed (attempt %d): %v", questionID, attempt, err)

		if attempt >= maxAttempts {
			return
		}

		select {
		case <-w.ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}

// Purge deletes every like and comment attached to the question. Rows
// already gone are a no-op.
func Purge(tx *gorm.DB, questionID uint) error {
	if err := tx.Where("question_id = ?", questionID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	return tx.Where("question_id = ?", questionID).Delete(&models.Comment{}).Error
}

// Start brings up the package-level worker used by the handlers.
func Start() {
	mu.Lock()
	defer mu.Unlock()

	if defaultWorker == nil {
		defaultWorker = NewWorker()
		defaultWorker.Start()
	}
}

func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if defaultWorker != nil {
		defaultWorker.Stop()
		defaultWorker = nil
	}
}

// Enqueue hands a purge job to the package-level worker. Without a running
// worker the purge happens inline, which keeps single-process tools and
// tests deterministic.
func Enqueue(questionID uint) {
	mu.Lock()
	w := defaultWorker
	mu.Unlock()

	if w == nil {
		if err := Purge(db.DB, questionID); err != nil {
			log.Printf("Engagement purge for question %d failed: %v", questionID, err)
		}
		return
	}

	w.Enqueue(questionID)
}
