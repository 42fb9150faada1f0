package analytics

import (
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

const (
	defaultMaxEvents = 10000 // Keep last 10k events for performance
	topN             = 5
)

// Service implements analytics tracking and reporting.
// Events live in memory only; the oldest are dropped once maxEvents is reached.
type Service struct {
	mutex     sync.RWMutex
	events    []model.SearchEvent
	maxEvents int
	now       func() time.Time
}

// NewService creates a new analytics service keeping at most maxEvents events.
// A non-positive maxEvents uses the default.
func NewService(maxEvents int) *Service {
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	return &Service{
		events:    make([]model.SearchEvent, 0),
		maxEvents: maxEvents,
		now:       time.Now,
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > s.maxEvents {
		s.events = append(s.events[:0:0], s.events[len(s.events)-s.maxEvents:]...)
	}
}

// TrackOutcome records a search outcome
func (s *Service) TrackOutcome(outcome services.SearchOutcome, responseTime time.Duration) {
	event := model.SearchEvent{
		Query:        outcome.Query,
		Attempt:      string(outcome.Attempt),
		ResponseTime: responseTime,
		ResultCount:  outcome.TotalResults,
	}
	if outcome.CorrectedQuery != nil {
		event.CorrectedQuery = *outcome.CorrectedQuery
	}
	s.TrackSearchEvent(event)
}

// EventCount returns the number of events currently retained
func (s *Service) EventCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	// Filter events for different time periods
	last24hEvents := filterEventsByTimeRange(s.events, yesterday, now)
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterEventsByTimeRange(s.events, lastWeek, now)

	zeroResults := 0
	corrected := 0
	attempts := make(map[string]int)
	for _, event := range last24hEvents {
		if event.ResultCount == 0 {
			zeroResults++
		}
		if event.CorrectedQuery != "" {
			corrected++
		}
		attempts[event.Attempt]++
	}

	return model.AnalyticsDashboard{
		TotalSearches:            len(last24hEvents),
		SearchesChangePercent:    calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		ZeroResultSearches:       zeroResults,
		ZeroResultRate:           percentage(zeroResults, len(last24hEvents)),
		CorrectedSearches:        corrected,
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		ResponseTimeChange:       calculateResponseTimeChange(last24hEvents, prev24hEvents),
		SearchPerformance24h:     getHourlyPerformance(last24hEvents),
		PopularSearches:          getPopularSearches(lastWeekEvents, func(model.SearchEvent) bool { return true }),
		ZeroResultQueries:        getPopularSearches(lastWeekEvents, func(e model.SearchEvent) bool { return e.ResultCount == 0 }),
		TopCorrections:           getTopCorrections(lastWeekEvents),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		Attempts:                 attempts,
	}
}

// filterEventsByTimeRange returns events in (start, end]
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// calculateResponseTimeChange calculates response time change trend
func calculateResponseTimeChange(current, previous []model.SearchEvent) string {
	currentAvg := calculateAvgResponseTime(current)
	previousAvg := calculateAvgResponseTime(previous)

	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

// getHourlyPerformance returns hourly search performance for the last 24 hours
func getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)

	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		events := hourlyData[hour]
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(events),
			AvgResponseTime: calculateAvgResponseTime(events),
		})
	}

	return performance
}

// getPopularSearches returns the most frequent non-empty queries among events matching keep.
// Ties are broken alphabetically.
func getPopularSearches(events []model.SearchEvent, keep func(model.SearchEvent) bool) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" && keep(event) {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > topN {
		popular = popular[:topN]
	}
	return popular
}

// getTopCorrections returns the most frequently applied spelling corrections
func getTopCorrections(events []model.SearchEvent) []model.PopularCorrection {
	type pair struct{ query, corrected string }
	counts := make(map[pair]int)
	for _, event := range events {
		if event.CorrectedQuery != "" {
			counts[pair{event.Query, event.CorrectedQuery}]++
		}
	}

	corrections := make([]model.PopularCorrection, 0, len(counts))
	for p, count := range counts {
		corrections = append(corrections, model.PopularCorrection{Query: p.query, Corrected: p.corrected, Count: count})
	}

	sort.Slice(corrections, func(i, j int) bool {
		if corrections[i].Count != corrections[j].Count {
			return corrections[i].Count > corrections[j].Count
		}
		return corrections[i].Query < corrections[j].Query
	})

	if len(corrections) > topN {
		corrections = corrections[:topN]
	}
	return corrections
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)

	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	// Calculate percentages
	dist.Percentage0To25 = percentage(dist.Bucket0To25ms, total)
	dist.Percentage25To50 = percentage(dist.Bucket25To50ms, total)
	dist.Percentage50To100 = percentage(dist.Bucket50To100ms, total)
	dist.Percentage100Plus = percentage(dist.Bucket100msPlus, total)

	return dist
}
