package api

import (
	"time"

	"github.com/cascadelab/contagion/pkg/contagion"
)

// API Request/Response Types

// CascadeRequest represents a cascade simulation request
type CascadeRequest struct {
	Entities      []contagion.Entity     `json:"entities"`
	Obligations   []contagion.Obligation `json:"obligations,omitempty"`
	InitialFailed []string               `json:"initial_failed,omitempty"`
	MaxSteps      int                    `json:"max_steps,omitempty"`
}

// CascadeResponse represents a cascade simulation response
type CascadeResponse struct {
	RunID  string                   `json:"run_id"`
	Result *contagion.CascadeResult `json:"result"`
	Time   string                   `json:"time"`
}

// CriticalityRequest represents a criticality ranking request
type CriticalityRequest struct {
	Entities    []contagion.Entity     `json:"entities"`
	Obligations []contagion.Obligation `json:"obligations,omitempty"`
	TopK        int                    `json:"top_k,omitempty"`
	Workers     int                    `json:"workers,omitempty"`
	MaxSteps    int                    `json:"max_steps,omitempty"`
}

// CriticalityResponse represents a criticality ranking response
type CriticalityResponse struct {
	RunID  string                       `json:"run_id"`
	Report *contagion.CriticalityReport `json:"report"`
	Time   string                       `json:"time"`
}

// GenerateRequest represents a synthetic network generation request.
// Zero values defer to the generator defaults.
type GenerateRequest struct {
	Entities       int     `json:"entities,omitempty"`
	CoreSize       int     `json:"core_size,omitempty"`
	CoreDensity    float64 `json:"core_density,omitempty"`
	PeripheryLinks int     `json:"periphery_links,omitempty"`
	Seed           int64   `json:"seed,omitempty"`
}

// GenerateResponse represents a generated network
type GenerateResponse struct {
	Entities    []contagion.Entity     `json:"entities"`
	Obligations []contagion.Obligation `json:"obligations"`
	Seed        int64                  `json:"seed"`
	Time        string                 `json:"time"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
