package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const reconcileBatchSize = 200

// LedgerReconcileScheduler 완료되었으나 매출 원장에 반영되지 않은 예약을 주기적으로 반영
type LedgerReconcileScheduler struct {
	cron          *cron.Cron
	ledgerService service.LedgerService
	schedule      string
	timeout       time.Duration
}

// NewLedgerReconcileScheduler schedule is a standard 5-field cron expression evaluated in loc.
func NewLedgerReconcileScheduler(ledgerService service.LedgerService, schedule string, loc *time.Location) *LedgerReconcileScheduler {
	return &LedgerReconcileScheduler{
		cron:          cron.New(cron.WithLocation(loc)),
		ledgerService: ledgerService,
		schedule:      schedule,
		timeout:       5 * time.Minute,
	}
}

// Start 스케줄러 시작
func (s *LedgerReconcileScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for ledger reconciliation", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Ledger reconcile scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

func (s *LedgerReconcileScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	recorded, err := s.ledgerService.ReconcilePending(ctx, reconcileBatchSize)
	if err != nil {
		logger.Error("Scheduled ledger reconciliation failed", err)
		return
	}
	if recorded > 0 {
		logger.Info("Scheduled ledger reconciliation recorded sales", map[string]interface{}{
			"recorded": recorded,
		})
	}
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다.
func (s *LedgerReconcileScheduler) Stop() {
	logger.Info("Stopping ledger reconcile scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Ledger reconcile scheduler stopped")
}
