package models

import "time"

// QuotaUsage reports the market-data API calls consumed today.
type QuotaUsage struct {
	Date      string `json:"date" example:"2025-10-15"`
	Calls     int    `json:"calls_today" example:"3"`
	Limit     int    `json:"limit" example:"25"`
	Remaining int    `json:"remaining" example:"22"`
}

// CacheStatus reports the state of the price snapshot cache.
type CacheStatus struct {
	Valid     bool       `json:"valid"`
	FetchedAt *time.Time `json:"last_updated,omitempty"`
	Source    string     `json:"source,omitempty" example:"live"`
}

// ServiceStatus is the payload of the status endpoint.
type ServiceStatus struct {
	Timestamp time.Time   `json:"timestamp"`
	Quota     QuotaUsage  `json:"api_usage"`
	Cache     CacheStatus `json:"cache_status"`
	Version   string      `json:"version" example:"1.0.0"`
}
