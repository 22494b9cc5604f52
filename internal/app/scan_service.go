package app

import (
	"context"
	"time"

	"suspended_business_scanner/internal/domain/notify"
	"suspended_business_scanner/internal/domain/place"
	"suspended_business_scanner/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// PlaceSource pulls raw place payloads for one city from the search service.
type PlaceSource interface {
	FetchPlaces(ctx context.Context, city config.CityPreset) ([]place.Raw, error)
}

// SnapshotWriter dumps a run's newly appended rows to a local file.
type SnapshotWriter interface {
	WriteSnapshot(tab string, runTime time.Time, records []place.Record) (string, error)
}

// City outcome labels for the run summary.
const (
	CityOutcomeSuccess = "success"
	CityOutcomePartial = "partial"
	CityOutcomeFailed  = "failed"
)

// CityResult is the per-city slice of a run summary.
type CityResult struct {
	City      string
	Tab       string
	Fetched   int
	Rejected  int // payloads dropped by the normalizer
	Appended  int
	Known     int // fetched but already in the table
	WeeklyNew int
	Err       error // storage failure that aborted this city
}

// Outcome classifies the city's run: failed when storage aborted it, partial
// when some payloads were rejected, success otherwise.
func (r CityResult) Outcome() string {
	switch {
	case r.Err != nil:
		return CityOutcomeFailed
	case r.Rejected > 0:
		return CityOutcomePartial
	default:
		return CityOutcomeSuccess
	}
}

// RunSummary is the run's sole result besides persisted rows and sent
// notifications. No partial success is swallowed: every city and every
// (recipient, channel) pair is accounted for.
type RunSummary struct {
	StartedAt              time.Time
	Cities                 []CityResult
	WeeklyCounts           map[string]int
	RecipientsAttempted    int
	Outcomes               []notify.Outcome
	NotificationSkipped    bool
	NotificationSkipReason string
}

// OutcomeTotals tallies notification outcomes by status.
func (s *RunSummary) OutcomeTotals() map[notify.Status]int {
	totals := make(map[notify.Status]int)
	for _, o := range s.Outcomes {
		totals[o.Status]++
	}
	return totals
}

// TotalNewThisWeek sums the weekly counts across cities.
func (s *RunSummary) TotalNewThisWeek() int {
	total := 0
	for _, n := range s.WeeklyCounts {
		total += n
	}
	return total
}

// ScanServiceDeps wires the collaborators into the orchestrator.
type ScanServiceDeps struct {
	Source     PlaceSource
	Store      place.TableStore
	Recipients notify.Source
	Dispatcher Dispatcher
	Snapshots  SnapshotWriter // optional
	Logger     *logrus.Logger
}

// ScanService sequences the run: per city fetch → normalize → merge →
// append → weekly count, then one aggregation and notification pass.
type ScanService struct {
	source     PlaceSource
	store      place.TableStore
	recipients notify.Source
	dispatcher Dispatcher
	snapshots  SnapshotWriter
	logger     *logrus.Logger

	cities         *config.CitiesConfig
	sheetLink      string
	writeEnabled   bool
	sendEvenIfZero bool
}

func NewScanService(deps ScanServiceDeps, cities *config.CitiesConfig, sheetLink string, writeEnabled, sendEvenIfZero bool) *ScanService {
	return &ScanService{
		source:         deps.Source,
		store:          deps.Store,
		recipients:     deps.Recipients,
		dispatcher:     deps.Dispatcher,
		snapshots:      deps.Snapshots,
		logger:         deps.Logger,
		cities:         cities,
		sheetLink:      sheetLink,
		writeEnabled:   writeEnabled,
		sendEvenIfZero: sendEvenIfZero,
	}
}

// Run executes one full scan. The wall clock is read once here and threaded
// into both stamping and weekly counting, so a run can never straddle a week
// boundary internally. Run always completes and reports; a city or recipient
// failure never escalates past this boundary.
func (s *ScanService) Run(ctx context.Context) *RunSummary {
	now := time.Now().UTC()
	summary := &RunSummary{
		StartedAt:    now,
		WeeklyCounts: make(map[string]int, len(s.cities.Cities)),
	}

	for _, city := range s.cities.Cities {
		result := s.runCity(ctx, city, now)
		if result.Err != nil {
			s.logger.Errorf("City %s failed: %v", city.Name, result.Err)
		} else {
			s.logger.Infof("City %s: fetched=%d appended=%d known=%d rejected=%d new_this_week=%d",
				city.Name, result.Fetched, result.Appended, result.Known, result.Rejected, result.WeeklyNew)
		}
		summary.Cities = append(summary.Cities, result)
		summary.WeeklyCounts[city.DisplayName] = result.WeeklyNew
	}

	s.notifyRecipients(ctx, summary)
	return summary
}

// runCity processes one city. A failure talking to the table store aborts
// this city only; other cities proceed.
func (s *ScanService) runCity(ctx context.Context, city config.CityPreset, now time.Time) CityResult {
	result := CityResult{City: city.DisplayName, Tab: city.Tab}

	raws, err := s.source.FetchPlaces(ctx, city)
	if err != nil {
		result.Err = err
		return result
	}
	result.Fetched = len(raws)

	batch := make([]place.Record, 0, len(raws))
	for _, raw := range raws {
		keyword := place.MatchingKeywords(raw.Types, s.cities.Scan.Types)
		rec, err := place.Normalize(raw, keyword)
		if err != nil {
			// Record-scoped: drop and log, never retry, never abort the batch.
			s.logger.Warnf("Dropping payload for %s (%q): %v", city.Name, raw.DisplayName, err)
			result.Rejected++
			continue
		}
		batch = append(batch, rec)
	}

	if err := s.store.EnsureTab(ctx, city.Tab); err != nil {
		result.Err = err
		return result
	}
	existing, err := s.store.ReadAll(ctx, city.Tab)
	if err != nil {
		result.Err = err
		return result
	}

	merged := place.Merge(existing, batch, now)
	result.Known = merged.Known

	if len(merged.New) > 0 {
		if s.writeEnabled {
			if err := s.store.Append(ctx, city.Tab, merged.New); err != nil {
				result.Err = err
				return result
			}
			result.Appended = len(merged.New)
			existing = append(existing, merged.New...)
			s.writeSnapshot(city.Tab, now, merged.New)
		} else {
			s.logger.Infof("Write disabled; would have appended %d row(s) to %q.", len(merged.New), city.Tab)
		}
	}

	result.WeeklyNew = place.CountNewThisWeek(existing, now)
	return result
}

func (s *ScanService) writeSnapshot(tab string, now time.Time, records []place.Record) {
	if s.snapshots == nil {
		return
	}
	path, err := s.snapshots.WriteSnapshot(tab, now, records)
	if err != nil {
		// Snapshots are a local convenience; a failure never affects the run.
		s.logger.Warnf("Failed to write snapshot for %q: %v", tab, err)
		return
	}
	s.logger.Infof("Wrote snapshot %s", path)
}

// notifyRecipients loads the recipient list, composes the summary and fans
// it out. An unreachable recipient source skips notification for the run;
// scanning results are already in the summary at that point.
func (s *ScanService) notifyRecipients(ctx context.Context, summary *RunSummary) {
	if summary.TotalNewThisWeek() == 0 && !s.sendEvenIfZero {
		summary.NotificationSkipped = true
		summary.NotificationSkipReason = "no new businesses this week"
		s.logger.Info("No new businesses this week; skipping notification.")
		return
	}

	recipients, err := s.recipients.LoadRecipients(ctx)
	if err != nil {
		summary.NotificationSkipped = true
		summary.NotificationSkipReason = "recipient source unreachable: " + err.Error()
		s.logger.Errorf("Could not load recipients; skipping notification: %v", err)
		return
	}
	if len(recipients) == 0 {
		summary.NotificationSkipped = true
		summary.NotificationSkipReason = "no valid recipients configured"
		s.logger.Warn("Recipient list is empty; skipping notification.")
		return
	}

	subject, body := notify.ComposeSummary(s.cities.CityOrder(), summary.WeeklyCounts, s.sheetLink)
	summary.RecipientsAttempted = len(recipients)
	summary.Outcomes = s.dispatcher.Dispatch(ctx, recipients, subject, body)
}
