package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkarsh-OTS/smm/internal/analysis"
	"github.com/Utkarsh-OTS/smm/internal/metrics"
	"github.com/Utkarsh-OTS/smm/internal/store"
	"github.com/Utkarsh-OTS/smm/pkg/config"
)

type stubRefresher struct {
	called bool
	err    error
}

func (r *stubRefresher) RefreshUser(_ context.Context, _ string) error {
	r.called = true
	return r.err
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *stubRefresher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	refresher := &stubRefresher{}
	Init(
		store.New(sqlDB, log),
		analysis.NewCache(nil, time.Hour, log),
		refresher,
		metrics.NewNop(),
		config.Settings{DefaultTimezone: "UTC", UpcomingLimit: 5},
		log,
	)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Next()
	})

	api := router.Group("/api")
	{
		api.GET("/tweets/scheduled", ListScheduled)
		api.POST("/tweets/scheduled", CreateScheduled)
		api.DELETE("/tweets/scheduled/:id", DeleteScheduled)
		api.PUT("/tweets/scheduled/:id/schedule", RescheduleTweet)
		api.POST("/tweets/scheduled/:id/posted", MarkPosted)
		api.GET("/dashboard", GetDashboard)
		api.GET("/calendar", GetCalendar)
		api.POST("/analysis/run", RunAnalysis)
		api.GET("/analysis", GetAnalysis)
	}
	return router, mock, refresher
}

func emptyTweetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "content", "scheduled_for", "is_posted", "is_thread",
		"thread_id", "thread_order", "metadata", "created_at", "updated_at",
	})
}

func TestGetDashboard_EmptyHistory(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_tweets")).
		WithArgs("u1").
		WillReturnRows(emptyTweetRows())
	mock.ExpectQuery(regexp.QuoteMeta("FROM tweet_analyses")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"scheduled_tweets": 0,
		"total_tweets": 0,
		"avg_engagement": 0,
		"upcoming_tweets": []
	}`, w.Body.String())
}

func TestCreateScheduled_RejectsMissingFields(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tweets/scheduled",
		strings.NewReader(`{"content": ""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateScheduled_ThreadFieldValidation(t *testing.T) {
	router, _, _ := setupRouter(t)

	// Thread flag without a thread ID must be rejected before any SQL runs.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tweets/scheduled",
		strings.NewReader(`{"content":"hi","scheduled_for":"2026-09-01T10:00:00Z","is_thread":true,"thread_order":1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteScheduled_PostedTweetConflicts(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduled_tweets")).
		WithArgs("tw-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_posted FROM scheduled_tweets")).
		WithArgs("tw-1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"is_posted"}).AddRow(true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/tweets/scheduled/tw-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteScheduled_UnknownTweet(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduled_tweets")).
		WithArgs("missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_posted FROM scheduled_tweets")).
		WithArgs("missing", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"is_posted"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/tweets/scheduled/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkPosted_SecondCallConflicts(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scheduled_tweets SET is_posted = TRUE")).
		WithArgs("tw-1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT is_posted FROM scheduled_tweets")).
		WithArgs("tw-1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"is_posted"}).AddRow(true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tweets/scheduled/tw-1/posted", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCalendar_SingleDay(t *testing.T) {
	router, mock, _ := setupRouter(t)
	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_tweets")).
		WithArgs("u1").
		WillReturnRows(emptyTweetRows().
			AddRow("tw-1", "u1", "on the day", day, false, false, nil, nil, []byte("{}"), day, day).
			AddRow("tw-2", "u1", "the day after", day.Add(24*time.Hour), false, false, nil, nil, []byte("{}"), day, day))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_settings")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "timezone", "default_tweet_style", "auto_schedule_optimal", "notifications_enabled"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar?date=2026-09-01", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tw-1")
	assert.NotContains(t, w.Body.String(), "tw-2")
}

func TestGetCalendar_BadDate(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scheduled_tweets")).
		WithArgs("u1").
		WillReturnRows(emptyTweetRows())
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_settings")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "timezone", "default_tweet_style", "auto_schedule_optimal", "notifications_enabled"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar?date=September+1st", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalysis_NoneYet(t *testing.T) {
	router, mock, _ := setupRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tweet_analyses")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunAnalysis_InvokesRefresher(t *testing.T) {
	router, mock, refresher := setupRouter(t)
	now := time.Date(2026, 8, 28, 4, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tweet_analyses")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "total_tweets", "avg_engagement", "common_hashtags",
			"writing_style", "topic_analysis", "sentiment_score", "posting_pattern", "generated_at",
		}).AddRow("u1", 3, 4.5, []byte("[]"), []byte("{}"), []byte("[]"), 0.2, []byte("{}"), now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM profile_optimizations")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "suggestion_type", "title", "description", "priority", "created_at",
		}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/run", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, refresher.called)
	assert.Contains(t, w.Body.String(), `"total_tweets":3`)
}
