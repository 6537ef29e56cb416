package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Utkarsh-OTS/smm/internal/analysis"
	"github.com/Utkarsh-OTS/smm/internal/metrics"
	"github.com/Utkarsh-OTS/smm/internal/schedule"
	"github.com/Utkarsh-OTS/smm/internal/store"
	"github.com/Utkarsh-OTS/smm/pkg/config"
	"github.com/Utkarsh-OTS/smm/pkg/logging"
	"github.com/Utkarsh-OTS/smm/pkg/models"
)

// Refresher triggers a synchronous analysis recompute for one user. The
// background scheduler implements it; handlers stay decoupled from its
// loops.
type Refresher interface {
	RefreshUser(ctx context.Context, userID string) error
}

var (
	db        *store.Store
	cache     *analysis.Cache
	refresher Refresher
	m         *metrics.Metrics
	settings  config.Settings
	logger    logging.Logger
)

// Init initializes the handlers with their collaborators.
func Init(st *store.Store, c *analysis.Cache, r Refresher, mtr *metrics.Metrics, cfg config.Settings, log logging.Logger) {
	db = st
	cache = c
	refresher = r
	m = mtr
	settings = cfg
	logger = log
}

// userID returns the authenticated user set by the JWT middleware.
func userID(c *gin.Context) string {
	return c.GetString("user_id")
}

// userLocation resolves the user's timezone, falling back to the service
// default and finally UTC.
func userLocation(ctx context.Context, uid string) *time.Location {
	tz := settings.DefaultTimezone
	if userSettings, err := db.GetSettings(ctx, uid); err == nil && userSettings.Timezone != "" {
		tz = userSettings.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.WithField("timezone", tz).Warn("Unknown timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}

// writeStoreError maps store sentinel errors onto HTTP statuses.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tweet not found"})
	case errors.Is(err, store.ErrPostedImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": "Posted tweets are immutable"})
	case errors.Is(err, store.ErrAlreadyPosted):
		c.JSON(http.StatusConflict, gin.H{"error": "Tweet is already posted"})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.WithError(err).Error("Store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListScheduled returns the user's full schedule plus its counters.
func ListScheduled(c *gin.Context) {
	uid := userID(c)
	tweets, err := db.ListTweets(c.Request.Context(), uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"tweets": tweets,
		"stats":  schedule.CountStats(tweets, now),
	})
}

// CreateScheduled queues a new tweet for future publication.
func CreateScheduled(c *gin.Context) {
	var req models.CreateScheduledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tweet := models.ScheduledTweet{
		UserID:       userID(c),
		Content:      req.Content,
		ScheduledFor: req.ScheduledFor,
		IsThread:     req.IsThread,
		ThreadID:     req.ThreadID,
		ThreadOrder:  req.ThreadOrder,
		Metadata:     req.Metadata,
	}
	created, err := db.CreateTweet(c.Request.Context(), &tweet)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	m.TweetsScheduled.Inc()
	c.JSON(http.StatusCreated, created)
}

// DeleteScheduled removes an unposted tweet from the queue.
func DeleteScheduled(c *gin.Context) {
	if err := db.DeleteTweet(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}

	m.TweetsDeleted.Inc()
	c.Status(http.StatusNoContent)
}

// RescheduleTweet moves an unposted tweet to a new publish time and returns
// the updated record.
func RescheduleTweet(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := userID(c)
	id := c.Param("id")
	if err := db.Reschedule(c.Request.Context(), uid, id, req.ScheduledFor); err != nil {
		writeStoreError(c, err)
		return
	}

	tweet, err := db.GetTweet(c.Request.Context(), uid, id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, tweet)
}

// MarkPosted flips a tweet to the posted state. Racing callers get a
// conflict; the first writer wins.
func MarkPosted(c *gin.Context) {
	if err := db.MarkPosted(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeStoreError(c, err)
		return
	}

	m.TweetsPublished.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "posted"})
}

// GetDashboard returns the aggregate dashboard view: pending count, total
// history, latest average engagement and the soonest upcoming tweets.
func GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	tweets, err := db.ListTweets(ctx, uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	latest := latestAnalysis(ctx, uid)
	summary := schedule.BuildDashboard(tweets, latest, time.Now().UTC(), settings.UpcomingLimit)
	c.JSON(http.StatusOK, summary)
}

// GetCalendar groups the user's schedule by calendar date in their
// timezone. With ?date=YYYY-MM-DD it returns that single day.
func GetCalendar(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	tweets, err := db.ListTweets(ctx, uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}

	loc := userLocation(ctx, uid)
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation(schedule.DateKey, raw, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"date":   raw,
			"tweets": schedule.PostsOn(tweets, date, loc),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": schedule.GroupByDate(tweets, loc)})
}

// RunAnalysis synchronously recomputes the user's analysis and returns the
// fresh snapshot.
func RunAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	if err := refresher.RefreshUser(ctx, uid); err != nil {
		logger.WithError(err).WithField("user_id", uid).Error("Analysis run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis run failed"})
		return
	}

	snapshot, err := loadSnapshot(ctx, uid)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetAnalysis returns the latest stored analysis and suggestions,
// preferring the cache.
func GetAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	if snapshot := cache.Get(ctx, uid); snapshot != nil {
		m.CacheHits.Inc()
		c.JSON(http.StatusOK, snapshot)
		return
	}
	m.CacheMisses.Inc()

	snapshot, err := loadSnapshot(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No analysis has been generated yet"})
			return
		}
		writeStoreError(c, err)
		return
	}

	cache.Set(ctx, uid, snapshot)
	c.JSON(http.StatusOK, snapshot)
}

func loadSnapshot(ctx context.Context, uid string) (*analysis.Snapshot, error) {
	latest, err := db.LatestAnalysis(ctx, uid)
	if err != nil {
		return nil, err
	}
	suggestions, err := db.ListSuggestions(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &analysis.Snapshot{Analysis: *latest, Suggestions: suggestions}, nil
}

func latestAnalysis(ctx context.Context, uid string) *models.TweetAnalysis {
	if snapshot := cache.Get(ctx, uid); snapshot != nil {
		return &snapshot.Analysis
	}
	latest, err := db.LatestAnalysis(ctx, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.WithError(err).WithField("user_id", uid).Warn("Failed to load analysis for dashboard")
		}
		return nil
	}
	return latest
}
