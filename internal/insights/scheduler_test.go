package insights

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
)

func TestShouldRefresh(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		age       time.Duration
		frequency time.Duration
		want      bool
	}{
		{"fresh", 10 * time.Minute, 30 * time.Minute, false},
		{"exactly at frequency", 30 * time.Minute, 30 * time.Minute, true},
		{"just past frequency", 31 * time.Minute, 30 * time.Minute, true},
		{"ceiling beats long frequency", 25 * time.Hour, 2 * time.Hour, true},
		{"within long frequency", 90 * time.Minute, 2 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldRefresh(now.Add(-tt.age), tt.frequency, now)
			if got != tt.want {
				t.Errorf("ShouldRefresh(age=%v, freq=%v) = %v, want %v", tt.age, tt.frequency, got, tt.want)
			}
		})
	}

	if !ShouldRefresh(time.Time{}, 30*time.Minute, now) {
		t.Error("a user with no prior run must refresh")
	}
}

type stubBuilder struct {
	calls int32
	delay time.Duration
}

func (b *stubBuilder) Build(ctx context.Context, userID string, window models.Window) (*models.AnalysisContext, error) {
	atomic.AddInt32(&b.calls, 1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	return &models.AnalysisContext{
		UserID:   userID,
		Window:   window,
		Timezone: time.UTC,
	}, nil
}

type stubEngine struct {
	insights []models.Insight
}

func (e *stubEngine) Analyze(actx *models.AnalysisContext) []models.Insight {
	out := make([]models.Insight, len(e.insights))
	copy(out, e.insights)
	for i := range out {
		out[i].UserID = actx.UserID
	}
	return out
}

type stubInsightRepo struct {
	mu      sync.Mutex
	batches [][]models.Insight
	byBatch map[string][]models.Insight
}

func newStubInsightRepo() *stubInsightRepo {
	return &stubInsightRepo{byBatch: make(map[string][]models.Insight)}
}

func (r *stubInsightRepo) CreateBatch(ctx context.Context, insights []models.Insight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, insights)
	for _, in := range insights {
		if in.BatchID != nil {
			r.byBatch[*in.BatchID] = append(r.byBatch[*in.BatchID], in)
		}
	}
	return nil
}

func (r *stubInsightRepo) GetByBatchID(ctx context.Context, userID, batchID string) ([]models.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byBatch[batchID], nil
}

func (r *stubInsightRepo) GetByUser(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	return nil, nil
}

func (r *stubInsightRepo) GetBySource(ctx context.Context, userID string, source models.InsightSource, limit int) ([]models.Insight, error) {
	return nil, nil
}

func newTestService(builder *stubBuilder, engine *stubEngine, repo *stubInsightRepo) *Service {
	return NewService(builder, engine, repo, NewMemoryRunStateStore(), 30*time.Minute, logger.Default())
}

func TestGetOrRefreshRunsOnFirstCall(t *testing.T) {
	builder := &stubBuilder{}
	engine := &stubEngine{insights: []models.Insight{{Title: "t", Type: models.InsightTypeCorrelation}}}
	repo := newStubInsightRepo()
	svc := newTestService(builder, engine, repo)

	resp, err := svc.GetOrRefresh(context.Background(), "user-1", false)
	if err != nil {
		t.Fatalf("GetOrRefresh error: %v", err)
	}
	if !resp.Refreshed {
		t.Error("first call must refresh")
	}
	if len(resp.Insights) != 1 {
		t.Errorf("insights = %d, want 1", len(resp.Insights))
	}
	if resp.Insights[0].BatchID == nil {
		t.Error("persisted insight must carry a batch id")
	}
}

func TestGetOrRefreshServesCachedBatch(t *testing.T) {
	builder := &stubBuilder{}
	engine := &stubEngine{insights: []models.Insight{{Title: "t"}}}
	repo := newStubInsightRepo()
	svc := newTestService(builder, engine, repo)

	if _, err := svc.GetOrRefresh(context.Background(), "user-1", false); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.GetOrRefresh(context.Background(), "user-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Refreshed {
		t.Error("second call within the frequency must hit the cache")
	}
	if len(resp.Insights) != 1 {
		t.Errorf("cached insights = %d, want 1", len(resp.Insights))
	}
	if got := atomic.LoadInt32(&builder.calls); got != 1 {
		t.Errorf("builder calls = %d, want 1", got)
	}
}

func TestGetOrRefreshForceBypassesCache(t *testing.T) {
	builder := &stubBuilder{}
	svc := newTestService(builder, &stubEngine{}, newStubInsightRepo())

	if _, err := svc.GetOrRefresh(context.Background(), "user-1", false); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.GetOrRefresh(context.Background(), "user-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Refreshed {
		t.Error("forced call must recompute")
	}
	if got := atomic.LoadInt32(&builder.calls); got != 2 {
		t.Errorf("builder calls = %d, want 2", got)
	}
}

func TestGetOrRefreshPersistsEmptyRuns(t *testing.T) {
	builder := &stubBuilder{}
	repo := newStubInsightRepo()
	svc := newTestService(builder, &stubEngine{}, repo)

	resp, err := svc.GetOrRefresh(context.Background(), "user-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Insights) != 0 {
		t.Errorf("insights = %d, want 0", len(resp.Insights))
	}

	// the empty run still counts as fresh
	resp, err = svc.GetOrRefresh(context.Background(), "user-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Refreshed {
		t.Error("empty run must still satisfy freshness")
	}
	if got := atomic.LoadInt32(&builder.calls); got != 1 {
		t.Errorf("builder calls = %d, want 1", got)
	}
}

func TestConcurrentRefreshesShareOneRun(t *testing.T) {
	builder := &stubBuilder{delay: 50 * time.Millisecond}
	svc := newTestService(builder, &stubEngine{}, newStubInsightRepo())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GetOrRefresh(context.Background(), "user-1", true); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&builder.calls); got != 1 {
		t.Errorf("builder calls = %d, want 1 (single flight)", got)
	}
}
