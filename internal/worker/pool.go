package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"digitask/internal/dto"
	"digitask/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxJobAttempts = 3

// alertJob is the queue payload for one low-stock alert mail.
type alertJob struct {
	Alert    dto.StockAlertResponse `json:"alert"`
	Attempts int                    `json:"attempts"`
}

// Pool consumes the stock alert queue and delivers mail through the SMTP
// circuit breaker. Jobs that keep failing land on the dead-letter queue
// instead of being retried forever.
type Pool struct {
	rdb    *redis.Client
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	size   int
	wg     sync.WaitGroup
}

func NewPool(rdb *redis.Client, mailer *infra.Mailer, size int) *Pool {
	if size <= 0 {
		size = 5
	}
	return &Pool{
		rdb:    rdb,
		mailer: mailer,
		cb:     infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		size:   size,
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("stock alert worker pool started")
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		res, err := p.rdb.BRPop(ctx, 5*time.Second, StockAlertQueue).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue // queue empty, poll again
			}
			log.Warn().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [queue, payload]
		if len(res) < 2 {
			continue
		}
		p.process(ctx, id, []byte(res[1]))
	}
}

func (p *Pool) process(ctx context.Context, id int, payload []byte) {
	var job alertJob
	if err := json.Unmarshal(payload, &job); err != nil {
		log.Error().Err(err).Int("worker", id).Msg("malformed alert job discarded")
		return
	}

	if !p.mailer.Configured() {
		log.Info().
			Str("product", job.Alert.ProductName).
			Str("warehouse", job.Alert.WarehouseName).
			Str("level", job.Alert.Level).
			Msg("stock alert (mail relay not configured)")
		return
	}

	err := p.cb.Execute(func() error {
		return p.mailer.SendStockAlert(job.Alert)
	})
	if err == nil {
		log.Info().
			Str("product", job.Alert.ProductName).
			Str("warehouse", job.Alert.WarehouseName).
			Msg("stock alert mail sent")
		return
	}

	job.Attempts++
	log.Warn().Err(err).
		Int("attempts", job.Attempts).
		Str("product_id", job.Alert.ProductID).
		Msg("stock alert delivery failed")

	body, merr := json.Marshal(job)
	if merr != nil {
		return
	}
	if job.Attempts >= maxJobAttempts {
		if derr := p.rdb.LPush(ctx, StockAlertDLQ, body).Err(); derr != nil {
			log.Error().Err(derr).Msg("dead-letter push failed, alert lost")
		}
		return
	}
	// Requeue at the tail so fresh jobs keep flowing.
	if rerr := p.rdb.LPush(ctx, StockAlertQueue, body).Err(); rerr != nil {
		log.Error().Err(rerr).Msg("alert requeue failed, alert lost")
	}
}
