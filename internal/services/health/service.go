package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB          Pinger
	Storage     string
	LLMProvider string
	Timeout     time.Duration
}

// Status is the health payload.
type Status struct {
	OK          bool   `json:"ok"`
	Database    string `json:"database"`
	Storage     string `json:"storage"`
	LLMProvider string `json:"llmProvider"`
}

// NewService constructs a new health service.
func NewService(db Pinger, storage, llmProvider string) *Service {
	return &Service{DB: db, Storage: storage, LLMProvider: llmProvider, Timeout: 2 * time.Second}
}

// Status reports dependency state. Only a failing database marks the service unhealthy.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Storage: s.Storage, LLMProvider: s.LLMProvider}
	if s.DB == nil {
		return st
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "down"
		return st
	}
	st.Database = "up"
	return st
}
