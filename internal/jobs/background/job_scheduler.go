package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"bharatbiz/internal/logger"
	"bharatbiz/internal/services"
)

// JobScheduler runs the periodic ledger maintenance: moving stale pending
// invoices to overdue and sweeping reminders for what is already overdue.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	ledgerSvc    services.LedgerService
	reminderSvc  services.ReminderService
	overdueAfter time.Duration
	log          zerolog.Logger
}

func NewJobScheduler(ledgerSvc services.LedgerService, reminderSvc services.ReminderService, overdueAfter time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		ledgerSvc:    ledgerSvc,
		reminderSvc:  reminderSvc,
		overdueAfter: overdueAfter,
		log:          logger.WithComponent("jobs"),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.markOverdueInvoices, context.Background()),
		gocron.WithName("overdue-invoice-marker"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.sweepReminders, context.Background()),
		gocron.WithName("overdue-reminder-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (js *JobScheduler) markOverdueInvoices(ctx context.Context) {
	marked, err := js.ledgerSvc.MarkOverdueInvoices(ctx, js.overdueAfter)
	if err != nil {
		js.log.Error().Err(err).Msg("overdue marking failed")
		return
	}
	if marked > 0 {
		js.log.Info().Int("marked", marked).Msg("overdue marking complete")
	}
}

func (js *JobScheduler) sweepReminders(ctx context.Context) {
	sent, err := js.reminderSvc.SweepOverdue(ctx)
	if err != nil {
		js.log.Error().Err(err).Msg("reminder sweep failed")
		return
	}
	js.log.Info().Int("sent", sent).Msg("reminder sweep complete")
}
