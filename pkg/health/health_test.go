package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tablemeta/metaindex/pkg/capability"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

type fakeFS struct {
	entries []capability.Entry
	err     error
}

func (f *fakeFS) List(_ context.Context, _ string) ([]capability.Entry, error) {
	return f.entries, f.err
}

func (f *fakeFS) Delete(_ context.Context, _ string, _ bool) error { return nil }

func TestTimelineCheckerHealthy(t *testing.T) {
	checker := NewTimelineChecker(&fakePinger{})
	result := checker.Check(context.Background())
	if !result.Healthy {
		t.Errorf("expected healthy, got unhealthy: %s", result.Message)
	}
	if checker.Name() != "timeline_store" {
		t.Errorf("Name() = %q, want timeline_store", checker.Name())
	}
}

func TestTimelineCheckerUnhealthy(t *testing.T) {
	checker := NewTimelineChecker(&fakePinger{err: errors.New("bucket missing")})
	result := checker.Check(context.Background())
	if result.Healthy {
		t.Error("expected unhealthy")
	}
}

func TestTimelineCheckerTimeout(t *testing.T) {
	checker := NewTimelineChecker(&slowPinger{delay: 100 * time.Millisecond}).WithTimeout(10 * time.Millisecond)
	result := checker.Check(context.Background())
	if result.Healthy {
		t.Error("expected unhealthy due to timeout")
	}
}

type slowPinger struct {
	delay time.Duration
}

func (s *slowPinger) Ping() error {
	time.Sleep(s.delay)
	return nil
}

func TestFileSystemCheckerHealthy(t *testing.T) {
	fs := &fakeFS{entries: []capability.Entry{{Path: "p1", Name: "p1", IsDir: true}}}
	checker := NewFileSystemChecker(fs, "/base")
	result := checker.Check(context.Background())
	if !result.Healthy {
		t.Errorf("expected healthy, got unhealthy: %s", result.Message)
	}
	if checker.Name() != "base_path_fs" {
		t.Errorf("Name() = %q, want base_path_fs", checker.Name())
	}
}

func TestFileSystemCheckerUnhealthy(t *testing.T) {
	fs := &fakeFS{err: errors.New("access denied")}
	checker := NewFileSystemChecker(fs, "/base")
	result := checker.Check(context.Background())
	if result.Healthy {
		t.Error("expected unhealthy")
	}
}

func TestStatusHysteresis(t *testing.T) {
	status := NewStatus()
	config := Config{Retries: 3}

	status.Update(Result{Healthy: false, CheckedAt: time.Now()}, config)
	if !status.Healthy {
		t.Error("expected still healthy after 1 failure")
	}
	status.Update(Result{Healthy: false, CheckedAt: time.Now()}, config)
	if !status.Healthy {
		t.Error("expected still healthy after 2 failures")
	}
	status.Update(Result{Healthy: false, CheckedAt: time.Now()}, config)
	if status.Healthy {
		t.Error("expected unhealthy after 3 consecutive failures")
	}

	status.Update(Result{Healthy: true, CheckedAt: time.Now()}, config)
	if !status.Healthy {
		t.Error("expected healthy again after one success")
	}
	if status.ConsecutiveFailures != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", status.ConsecutiveFailures)
	}
}

func TestStatusInStartPeriod(t *testing.T) {
	status := NewStatus()
	config := Config{StartPeriod: time.Hour}
	if !status.InStartPeriod(config) {
		t.Error("expected to be within start period immediately after NewStatus")
	}

	config.StartPeriod = 0
	if status.InStartPeriod(config) {
		t.Error("expected no start period when StartPeriod is 0")
	}
}
