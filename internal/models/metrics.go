package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot served next to the
// Prometheus endpoint for dashboard consumption.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CertificatesIssued       uint64    `json:"certificates_issued"`
	CertificatesRevoked      uint64    `json:"certificates_revoked"`
	BlanksReceived           uint64    `json:"blanks_received"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
