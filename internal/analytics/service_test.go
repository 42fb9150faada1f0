package analytics

import (
	"testing"
	"time"

	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(maxEvents int) *Service {
	service := NewService(maxEvents)
	service.now = func() time.Time { return fixedNow }
	return service
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service := newTestService(0)

	event := model.SearchEvent{
		Query:        "red jacket",
		Attempt:      string(services.AttemptOriginal),
		ResponseTime: 50 * time.Millisecond,
		ResultCount:  10,
	}
	service.TrackSearchEvent(event)

	// Verify event was stored
	if service.EventCount() != 1 {
		t.Fatalf("Expected 1 event, got %d", service.EventCount())
	}

	storedEvent := service.events[0]
	if storedEvent.Query != event.Query {
		t.Errorf("Expected Query %s, got %s", event.Query, storedEvent.Query)
	}
	if !storedEvent.Timestamp.Equal(fixedNow) {
		t.Errorf("Expected timestamp to be set to %v, got %v", fixedNow, storedEvent.Timestamp)
	}
}

func TestAnalyticsService_TrackOutcome(t *testing.T) {
	service := newTestService(0)
	corrected := "jacket"

	service.TrackOutcome(services.SearchOutcome{
		Query:          "jaket",
		CorrectedQuery: &corrected,
		TotalResults:   3,
		Attempt:        services.AttemptCorrected,
	}, 12*time.Millisecond)

	stored := service.events[0]
	if stored.CorrectedQuery != "jacket" || stored.ResultCount != 3 || stored.Attempt != "corrected" {
		t.Errorf("Unexpected stored event: %+v", stored)
	}
}

func TestAnalyticsService_KeepsLatestEvents(t *testing.T) {
	service := newTestService(3)

	for _, q := range []string{"a", "b", "c", "d", "e"} {
		service.TrackSearchEvent(model.SearchEvent{Query: q})
	}

	if service.EventCount() != 3 {
		t.Fatalf("Expected 3 events, got %d", service.EventCount())
	}
	if service.events[0].Query != "c" || service.events[2].Query != "e" {
		t.Errorf("Expected the three latest events, got %+v", service.events)
	}
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	service := newTestService(0)

	recent := fixedNow.Add(-1 * time.Hour)
	events := []model.SearchEvent{
		{Query: "jacket", Attempt: "original", ResponseTime: 10 * time.Millisecond, ResultCount: 2, Timestamp: recent},
		{Query: "jacket", Attempt: "original", ResponseTime: 30 * time.Millisecond, ResultCount: 2, Timestamp: recent},
		{Query: "jaket", CorrectedQuery: "jacket", Attempt: "corrected", ResponseTime: 60 * time.Millisecond, ResultCount: 2, Timestamp: recent},
		{Query: "xyzxyz", Attempt: "none", ResponseTime: 200 * time.Millisecond, ResultCount: 0, Timestamp: recent},
		// Two days ago: counted in weekly lists only
		{Query: "boots", Attempt: "original", ResponseTime: 10 * time.Millisecond, ResultCount: 0, Timestamp: fixedNow.Add(-48 * time.Hour)},
		// Older than a week: ignored
		{Query: "ancient", Attempt: "original", ResultCount: 1, Timestamp: fixedNow.Add(-10 * 24 * time.Hour)},
	}
	for _, e := range events {
		service.TrackSearchEvent(e)
	}

	dashboard := service.GetDashboardData()

	if dashboard.TotalSearches != 4 {
		t.Errorf("Expected 4 searches in last 24h, got %d", dashboard.TotalSearches)
	}
	if dashboard.SearchesChangePercent != 100.0 {
		t.Errorf("Expected 100%% change with no previous searches, got %f", dashboard.SearchesChangePercent)
	}
	if dashboard.ZeroResultSearches != 1 || dashboard.ZeroResultRate != 25.0 {
		t.Errorf("Expected 1 zero-result search (25%%), got %d (%f)", dashboard.ZeroResultSearches, dashboard.ZeroResultRate)
	}
	if dashboard.CorrectedSearches != 1 {
		t.Errorf("Expected 1 corrected search, got %d", dashboard.CorrectedSearches)
	}
	if dashboard.AvgResponseTime != 75 {
		t.Errorf("Expected average response time 75ms, got %d", dashboard.AvgResponseTime)
	}
	if dashboard.Attempts["original"] != 2 || dashboard.Attempts["corrected"] != 1 || dashboard.Attempts["none"] != 1 {
		t.Errorf("Unexpected attempts: %v", dashboard.Attempts)
	}

	if len(dashboard.PopularSearches) != 4 {
		t.Fatalf("Expected 4 popular searches, got %d: %+v", len(dashboard.PopularSearches), dashboard.PopularSearches)
	}
	if dashboard.PopularSearches[0].Query != "jacket" || dashboard.PopularSearches[0].SearchCount != 2 {
		t.Errorf("Expected 'jacket' to be the most popular search, got %+v", dashboard.PopularSearches[0])
	}

	if len(dashboard.ZeroResultQueries) != 2 || dashboard.ZeroResultQueries[0].Query != "boots" {
		t.Errorf("Unexpected zero-result queries: %+v", dashboard.ZeroResultQueries)
	}

	if len(dashboard.TopCorrections) != 1 {
		t.Fatalf("Expected 1 correction, got %d", len(dashboard.TopCorrections))
	}
	if c := dashboard.TopCorrections[0]; c.Query != "jaket" || c.Corrected != "jacket" || c.Count != 1 {
		t.Errorf("Unexpected correction: %+v", c)
	}

	dist := dashboard.ResponseTimeDistribution
	if dist.Bucket0To25ms != 1 || dist.Bucket25To50ms != 1 || dist.Bucket50To100ms != 1 || dist.Bucket100msPlus != 1 {
		t.Errorf("Unexpected distribution: %+v", dist)
	}
	if dist.Percentage0To25 != 25.0 {
		t.Errorf("Expected 25%% in the first bucket, got %f", dist.Percentage0To25)
	}

	if len(dashboard.SearchPerformance24h) != 24 {
		t.Fatalf("Expected 24 hourly entries, got %d", len(dashboard.SearchPerformance24h))
	}
	if dashboard.SearchPerformance24h[11].SearchCount != 4 {
		t.Errorf("Expected 4 searches at 11:00, got %d", dashboard.SearchPerformance24h[11].SearchCount)
	}
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	dashboard := newTestService(0).GetDashboardData()

	if dashboard.TotalSearches != 0 || dashboard.ZeroResultRate != 0 || dashboard.AvgResponseTime != 0 {
		t.Errorf("Expected empty summary, got %+v", dashboard)
	}
	if dashboard.ResponseTimeChange != "stable" {
		t.Errorf("Expected stable response time, got %s", dashboard.ResponseTimeChange)
	}
	if len(dashboard.PopularSearches) != 0 || len(dashboard.TopCorrections) != 0 {
		t.Errorf("Expected no popular searches or corrections")
	}
}

func TestCalculateChangePercent(t *testing.T) {
	tests := []struct {
		current, previous int
		want              float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
	}
	for _, tt := range tests {
		if got := calculateChangePercent(tt.current, tt.previous); got != tt.want {
			t.Errorf("calculateChangePercent(%d, %d) = %f, want %f", tt.current, tt.previous, got, tt.want)
		}
	}
}
