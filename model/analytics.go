package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Query          string        `json:"query"`
	CorrectedQuery string        `json:"corrected_query,omitempty"`
	Attempt        string        `json:"attempt"` // escalation stage that produced the results
	ResponseTime   time.Duration `json:"response_time"`
	ResultCount    int           `json:"result_count"`
	Timestamp      time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// PopularCorrection represents a spelling correction and how often it was applied
type PopularCorrection struct {
	Query     string `json:"query"`
	Corrected string `json:"corrected"`
	Count     int    `json:"count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// SearchPerformanceHourly represents hourly search performance data
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics, last 24 hours
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"` // against the 24 hours before
	ZeroResultSearches    int     `json:"zero_result_searches"`
	ZeroResultRate        float64 `json:"zero_result_rate"` // percentage
	CorrectedSearches     int     `json:"corrected_searches"`
	AvgResponseTime       int64   `json:"avg_response_time"` // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`

	// Detailed analytics
	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`    // last 7 days
	ZeroResultQueries        []PopularSearch           `json:"zero_result_queries"` // last 7 days
	TopCorrections           []PopularCorrection       `json:"top_corrections"`     // last 7 days
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	Attempts                 map[string]int            `json:"attempts"` // escalation stage -> searches, last 24 hours
}
