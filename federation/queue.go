package federation

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/deemkeen/stegodon/domain"
	"github.com/google/uuid"
)

// QueueDatabase is the persistence seam the delivery worker pool needs:
// claim pending jobs, record a retry, or drop a job once it's sent or
// permanently failed.
type QueueDatabase interface {
	ReadPendingDeliveries(limit int) (error, *[]domain.DeliveryQueueItem)
	UpdateDeliveryAttempt(id uuid.UUID, attempts int, nextRetry time.Time) error
	DeleteDelivery(id uuid.UUID) error
	ReadAccById(id uuid.UUID) (error, *domain.Account)
}

// Sender performs the actual signed POST for one queued job. Kept as a
// func type rather than *Client directly so callers can wire in the keyID
// derivation that depends on config (base URL, account username).
type Sender func(item *domain.DeliveryQueueItem, privateKey string) error

// Queue is the durable outbound delivery worker pool: it polls the
// database for due jobs and retries failures with exponential backoff and
// jitter, up to maxAttempts.
type Queue struct {
	db          QueueDatabase
	send        Sender
	maxAttempts int
	batchSize   int
	pollEvery   time.Duration
}

func NewQueue(db QueueDatabase, send Sender, maxAttempts int) *Queue {
	return &Queue{
		db:          db,
		send:        send,
		maxAttempts: maxAttempts,
		batchSize:   25,
		pollEvery:   5 * time.Second,
	}
}

// Run polls for and processes due deliveries until stop is closed.
func (q *Queue) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(q.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			q.processOnce()
		}
	}
}

func (q *Queue) processOnce() {
	err, items := q.db.ReadPendingDeliveries(q.batchSize)
	if err != nil {
		log.Printf("federation: read pending deliveries: %v", err)
		return
	}
	if items == nil {
		return
	}

	for _, item := range *items {
		q.processOne(item)
	}
}

func (q *Queue) processOne(item domain.DeliveryQueueItem) {
	err, account := q.db.ReadAccById(item.ActorId)
	if err != nil {
		log.Printf("federation: delivery %s: actor lookup failed: %v", item.Id, err)
		q.scheduleRetry(item)
		return
	}

	if err := q.send(&item, account.WebPrivateKey); err != nil {
		if !Retryable(err) {
			log.Printf("federation: delivery %s to %s dropped (non-retryable): %v", item.Id, item.InboxURI, err)
			if delErr := q.db.DeleteDelivery(item.Id); delErr != nil {
				log.Printf("federation: delivery %s: delete after non-retryable failure: %v", item.Id, delErr)
			}
			return
		}
		q.scheduleRetry(item)
		return
	}

	if err := q.db.DeleteDelivery(item.Id); err != nil {
		log.Printf("federation: delivery %s: delete after success: %v", item.Id, err)
	}
}

func (q *Queue) scheduleRetry(item domain.DeliveryQueueItem) {
	attempts := item.Attempts + 1
	if attempts >= q.maxAttempts {
		log.Printf("federation: delivery %s to %s exhausted %d attempts, dropping", item.Id, item.InboxURI, q.maxAttempts)
		if err := q.db.DeleteDelivery(item.Id); err != nil {
			log.Printf("federation: delivery %s: delete after exhaustion: %v", item.Id, err)
		}
		return
	}

	backoff := time.Duration(math.Pow(2, float64(attempts))) * time.Second
	jitter := time.Duration(rand.Int63n(int64(backoff) / 4))
	next := time.Now().Add(backoff + jitter)

	if err := q.db.UpdateDeliveryAttempt(item.Id, attempts, next); err != nil {
		log.Printf("federation: delivery %s: record retry: %v", item.Id, err)
	}
}
