package scheduler

import (
	"context"
	"time"

	"suspended_business_scanner/internal/app"
	"suspended_business_scanner/internal/domain/notify"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScanScheduler triggers the weekly scan on a cron spec. Jobs run in UTC so
// the run instant and the ISO week bucketing agree with the stamped rows.
type ScanScheduler struct {
	cronEngine     *cron.Cron
	scanService    *app.ScanService
	logger         *logrus.Logger
	cronSpecWeekly string
}

func NewScanScheduler(scanService *app.ScanService, logger *logrus.Logger, cronSpecWeekly string) *ScanScheduler {
	return &ScanScheduler{
		cronEngine:     cron.New(cron.WithLocation(time.UTC)),
		scanService:    scanService,
		logger:         logger,
		cronSpecWeekly: cronSpecWeekly,
	}
}

func (s *ScanScheduler) Start() error {
	s.logger.Info("Starting scan scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecWeekly, func() {
		s.logger.Info("Cron job triggered for weekly scan.")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		summary := s.scanService.Run(ctx)
		LogSummary(s.logger, summary)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Scan scheduler started with spec %q.", s.cronSpecWeekly)
	return nil
}

func (s *ScanScheduler) Stop() {
	s.logger.Info("Stopping scan scheduler...")
	ctx := s.cronEngine.Stop() // waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("Scan scheduler gracefully stopped.")
}

// LogSummary emits the run summary in a diagnosable form: per-city outcome
// first, then every (recipient, channel) outcome, then the totals.
func LogSummary(logger *logrus.Logger, summary *app.RunSummary) {
	for _, city := range summary.Cities {
		entry := logger.WithFields(logrus.Fields{
			"city":         city.City,
			"outcome":      city.Outcome(),
			"fetched":      city.Fetched,
			"appended":     city.Appended,
			"known":        city.Known,
			"rejected":     city.Rejected,
			"new_reported": city.WeeklyNew,
		})
		if city.Err != nil {
			entry.WithError(city.Err).Error("City scan finished")
		} else {
			entry.Info("City scan finished")
		}
	}

	if summary.NotificationSkipped {
		logger.WithField("reason", summary.NotificationSkipReason).Warn("Notification skipped")
	} else {
		for _, o := range summary.Outcomes {
			logger.WithFields(logrus.Fields{
				"recipient": o.Recipient,
				"channel":   o.Channel,
				"status":    o.Status,
				"reason":    o.Reason,
			}).Info("Notification outcome")
		}
	}

	totals := summary.OutcomeTotals()
	logger.WithFields(logrus.Fields{
		"new_this_week": summary.TotalNewThisWeek(),
		"recipients":    summary.RecipientsAttempted,
		"delivered":     totals[notify.StatusDelivered],
		"failed":        totals[notify.StatusFailed],
		"skipped":       totals[notify.StatusSkipped],
	}).Info("Run complete")
}
