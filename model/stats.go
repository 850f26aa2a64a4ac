package model

// HealthStats is the GET /health payload.
type HealthStats struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	StoreBackend  string  `json:"store_backend"`
	EntryCount    int     `json:"entry_count"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  float64 `json:"memory_used_mb"`
}
