package tasks

import (
	"github.com/hibiken/asynq"
)

// TypePaymentReconcile is the task type for the periodic payment sweep.
const TypePaymentReconcile = "payment:reconcile"

// NewPaymentReconcileTask builds the sweep task. It carries no payload; the
// handler scans for stale pending payments itself.
func NewPaymentReconcileTask() *asynq.Task {
	return asynq.NewTask(TypePaymentReconcile, nil)
}
