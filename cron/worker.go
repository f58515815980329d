package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"dimple/config"
	"dimple/services/payment"
	"dimple/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReconcileWorker runs the payment reconciliation worker and its periodic
// scheduler in the background. The sweep resolves payments the gateway never
// called back about; a timeout alone never marks a payment failed, only a
// definitive gateway answer does.
func InitReconcileWorker(paymentSvc payment.PaymentService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaymentReconcile, handleReconcileTask(paymentSvc))

	go func() {
		log.Println("[ReconcileWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts)
}

func handleReconcileTask(paymentSvc payment.PaymentService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if err := paymentSvc.Reconcile(ctx); err != nil {
			log.Printf("[ReconcileWorker] sweep failed: %v", err)
			return err
		}
		return nil
	}
}

// runScheduler enqueues the sweep task on the configured cadence.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	spec := fmt.Sprintf("@every %dm", config.AppConfig.ReconcileIntervalMin)
	if _, err := scheduler.Register(spec, tasks.NewPaymentReconcileTask()); err != nil {
		log.Printf("[ReconcileWorker] failed to register sweep schedule: %v", err)
		return
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("[ReconcileWorker] scheduler stopped: %v", err)
	}
}
