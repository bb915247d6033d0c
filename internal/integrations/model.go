// Package integrations keeps the connection state of third-party tender sources
// and collaboration tools.
package integrations

import (
	"errors"
	"fmt"
	"time"
)

// Connection states.
const (
	StatusDisconnected = "disconnected"
	StatusPending      = "pending"
	StatusConnected    = "connected"
	StatusError        = "error"
)

// Registry modes.
const (
	ModeDemo = "demo"
	ModeLive = "live"
)

var (
	ErrUnknownIntegration = errors.New("unknown integration")
	ErrNotConnected       = errors.New("integration not connected")
)

// Credentials are the form fields submitted when connecting.
type Credentials map[string]string

// ConnectionError reports a credential problem on a specific field.
type ConnectionError struct {
	Integration string
	Field       string
	Reason      string
}

func (e *ConnectionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Integration, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Integration, e.Field, e.Reason)
}

// Connection is what a connector reports after Connect. Pending connections carry
// an AuthURL the user must visit.
type Connection struct {
	Status  string
	Account string
	AuthURL string
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	ItemsSynced int       `json:"itemsSynced"`
	SyncedAt    time.Time `json:"syncedAt"`
	Message     string    `json:"message,omitempty"`
}

// Integration is the registry's view of one connector.
type Integration struct {
	Name           string     `json:"name"`
	DisplayName    string     `json:"displayName"`
	Description    string     `json:"description"`
	RequiredFields []string   `json:"requiredFields"`
	Status         string     `json:"status"`
	Account        string     `json:"account,omitempty"`
	AuthURL        string     `json:"authUrl,omitempty"`
	ConnectedAt    *time.Time `json:"connectedAt,omitempty"`
	LastSyncAt     *time.Time `json:"lastSyncAt,omitempty"`
	ItemsSynced    int        `json:"itemsSynced"`
	LastError      string     `json:"lastError,omitempty"`
}
