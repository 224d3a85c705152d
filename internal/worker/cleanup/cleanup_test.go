package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// mockSessionDeleter はSessionDeleterのモック実装。
type mockSessionDeleter struct {
	deleteExpiredFn func(ctx context.Context) (int64, error)
	callCount       int
}

var _ SessionDeleter = (*mockSessionDeleter)(nil)

func (m *mockSessionDeleter) DeleteExpired(ctx context.Context) (int64, error) {
	m.callCount++
	return m.deleteExpiredFn(ctx)
}

// countingPurgeMetrics はPurgeMetricsのモック実装。
type countingPurgeMetrics struct {
	purged int64
}

var _ PurgeMetrics = (*countingPurgeMetrics)(nil)

func (m *countingPurgeMetrics) RecordSessionsPurged(count int64) {
	m.purged += count
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestSweepJob_Run_DeletesAndRecordsMetrics(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}
	collector := &countingPurgeMetrics{}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), collector)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if collector.purged != 7 {
		t.Errorf("purged = %d, want 7", collector.purged)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log entry: %v", err)
	}
	if entry["deleted_count"] != float64(7) {
		t.Errorf("deleted_count = %v, want 7", entry["deleted_count"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("duration_ms should be logged")
	}
}

func TestSweepJob_Run_ZeroDeletedIsNotAnError(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, nil
		},
	}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), nil)

	// 削除対象がなくても冪等に成功する
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	if deleter.callCount != 2 {
		t.Errorf("callCount = %d, want 2", deleter.callCount)
	}
}

func TestSweepJob_Run_DeleteFailure(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}
	collector := &countingPurgeMetrics{}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), collector)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error should wrap the cause: %v", err)
	}
	if collector.purged != 0 {
		t.Errorf("metrics should not be recorded on failure, purged = %d", collector.purged)
	}
}

func TestSweepJob_Run_NilMetrics(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), nil)

	// metricsがnilでもpanicしない
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestSweepJob_RunLoop_StopsOnContextCancel(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, nil
		},
	}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunLoop(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not stop after context cancellation")
	}
}

func TestSweepJob_RunLoop_RunsPeriodically(t *testing.T) {
	ran := make(chan struct{}, 10)
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			ran <- struct{}{}
			return 1, nil
		},
	}
	var buf bytes.Buffer

	job := NewSweepJob(deleter, newTestLogger(&buf), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go job.RunLoop(ctx, 10*time.Millisecond)

	// 少なくとも2回の実行を待つ
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatalf("expected run %d within timeout", i+1)
		}
	}
}
