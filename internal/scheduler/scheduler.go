// Package scheduler runs the service's background loops: the publish
// dispatcher that moves due tweets to the posted state, and the nightly
// analysis refresh.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Utkarsh-OTS/smm/internal/analysis"
	"github.com/Utkarsh-OTS/smm/internal/metrics"
	"github.com/Utkarsh-OTS/smm/internal/schedule"
	"github.com/Utkarsh-OTS/smm/internal/store"
	"github.com/Utkarsh-OTS/smm/pkg/config"
	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// Publisher delivers a due tweet to the outside world. Publish must be
// safe to call more than once for the same tweet; the store's posted flag
// is what guarantees at-most-once, not the publisher.
type Publisher interface {
	Publish(ctx context.Context, tweet *models.ScheduledTweet) error
}

// LogPublisher is the default publisher. It records the publish intent in
// the service log; the actual network delivery lives behind an API the
// deployment wires in separately.
type LogPublisher struct {
	Logger logging.Logger
}

func (p *LogPublisher) Publish(_ context.Context, tweet *models.ScheduledTweet) error {
	p.Logger.WithFields(logging.Fields{
		"tweet_id": tweet.ID,
		"user_id":  tweet.UserID,
	}).Info("Publishing scheduled tweet")
	return nil
}

// Scheduler owns the dispatch ticker and the analysis cron.
type Scheduler struct {
	store     *store.Store
	analyzer  *analysis.Analyzer
	cache     *analysis.Cache
	publisher Publisher
	metrics   *metrics.Metrics
	logger    logging.Logger
	settings  config.Settings

	cron     *cron.Cron
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New wires a Scheduler. publisher may be nil, in which case publishes are
// logged only.
func New(st *store.Store, analyzer *analysis.Analyzer, cache *analysis.Cache, publisher Publisher, m *metrics.Metrics, settings config.Settings, logger logging.Logger) *Scheduler {
	if publisher == nil {
		publisher = &LogPublisher{Logger: logger}
	}
	return &Scheduler{
		store:     st,
		analyzer:  analyzer,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		settings:  settings,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the dispatch loop and schedules the analysis refresh.
func (s *Scheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.settings.AnalysisCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.RefreshAll(ctx)
	}); err != nil {
		return err
	}
	s.cron.Start()

	s.wg.Add(1)
	go s.dispatchLoop()

	s.logger.WithFields(logging.Fields{
		"dispatch_interval": s.settings.DispatchInterval.String(),
		"analysis_cron":     s.settings.AnalysisCron,
	}).Info("Scheduler started")
	return nil
}

// Stop halts both loops and waits for in-flight work to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) dispatchLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.settings.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.settings.DispatchInterval)
			published, err := s.DispatchOnce(ctx, now)
			cancel()
			if err != nil {
				s.logger.WithError(err).Error("Dispatch run failed")
				continue
			}
			if published > 0 {
				s.logger.WithField("published", published).Info("Dispatch run complete")
			}
		}
	}
}

// DispatchOnce scans for due tweets and publishes them. Standalone tweets
// go out in due order; thread members go out in their composed order. A
// tweet that was already posted by a concurrent writer is skipped, not
// retried. Returns the number of tweets published.
func (s *Scheduler) DispatchOnce(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	s.metrics.DispatchRuns.Inc()
	defer func() {
		s.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := s.store.ListDue(ctx, now, s.settings.DispatchBatch)
	if err != nil {
		s.metrics.DispatchFailures.Inc()
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	published := 0
	for i := range due {
		if due[i].ThreadID != "" {
			continue
		}
		if s.publishOne(ctx, &due[i]) {
			published++
		}
	}

	threads := schedule.Threads(due)
	threadIDs := make([]string, 0, len(threads))
	for id := range threads {
		threadIDs = append(threadIDs, id)
	}
	sort.Strings(threadIDs)

	for _, threadID := range threadIDs {
		ordered, err := schedule.OrderThread(threads[threadID])
		if err != nil {
			s.logger.WithError(err).WithField("thread_id", threadID).Error("Skipping malformed thread")
			continue
		}
		for i := range ordered {
			if s.publishOne(ctx, &ordered[i]) {
				published++
			}
		}
	}
	return published, nil
}

// publishOne delivers a single tweet and flips its posted flag. Reports
// whether this run won the publish.
func (s *Scheduler) publishOne(ctx context.Context, tweet *models.ScheduledTweet) bool {
	if err := s.publisher.Publish(ctx, tweet); err != nil {
		s.metrics.DispatchFailures.Inc()
		s.logger.WithError(err).WithField("tweet_id", tweet.ID).Error("Publish failed, will retry next run")
		return false
	}

	if err := s.store.MarkPosted(ctx, tweet.UserID, tweet.ID); err != nil {
		if errors.Is(err, store.ErrAlreadyPosted) {
			s.metrics.PublishConflicts.Inc()
			s.logger.WithField("tweet_id", tweet.ID).Debug("Tweet already posted by a concurrent publisher")
			return false
		}
		s.metrics.DispatchFailures.Inc()
		s.logger.WithError(err).WithField("tweet_id", tweet.ID).Error("Failed to mark tweet posted")
		return false
	}

	s.metrics.TweetsPublished.Inc()
	return true
}

// RefreshAll recomputes analysis for every user with scheduled history.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Analysis refresh aborted: cannot list users")
		return
	}

	for _, userID := range users {
		if err := s.RefreshUser(ctx, userID); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("Analysis refresh failed for user")
		}
	}
}

// RefreshUser runs a full analysis recompute for one user and persists the
// result, replacing prior suggestions wholesale.
func (s *Scheduler) RefreshUser(ctx context.Context, userID string) error {
	start := time.Now()
	defer func() {
		s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	tweets, err := s.store.ListTweets(ctx, userID)
	if err != nil {
		s.metrics.AnalysisFailures.Inc()
		return err
	}

	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		s.metrics.AnalysisFailures.Inc()
		return err
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		s.logger.WithField("user_id", userID).WithField("timezone", settings.Timezone).Warn("Unknown timezone, falling back to UTC")
		loc = time.UTC
	}

	result, suggestions := s.analyzer.Analyze(ctx, userID, tweets, time.Now().UTC(), loc)
	if err := s.store.SaveAnalysis(ctx, result); err != nil {
		s.metrics.AnalysisFailures.Inc()
		return err
	}
	if err := s.store.ReplaceSuggestions(ctx, userID, suggestions); err != nil {
		s.metrics.AnalysisFailures.Inc()
		return err
	}

	s.cache.Set(ctx, userID, &analysis.Snapshot{Analysis: *result, Suggestions: suggestions})
	s.metrics.AnalysisRuns.Inc()
	return nil
}
