package integrations

import (
	"context"
	"errors"
	"sync"
	"time"

	"tender-backend/internal/shared/telemetry"
)

// Registry holds connectors and their connection state. It is created once at
// startup and passed to the handler.
type Registry struct {
	factory func() []Connector
	now     func() time.Time

	mu          sync.Mutex
	initialized bool
	order       []string
	connectors  map[string]Connector
	state       map[string]*Integration
}

// NewRegistry returns an uninitialized registry; call Init before use.
func NewRegistry(factory func() []Connector) *Registry {
	return &Registry{factory: factory, now: time.Now}
}

// Init loads the connectors. Calling it again is a no-op.
func (r *Registry) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return
	}
	r.load()
}

// Reset discards all connection state and reloads the connectors.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.load()
}

func (r *Registry) load() {
	r.order = nil
	r.connectors = make(map[string]Connector)
	r.state = make(map[string]*Integration)
	for _, c := range r.factory() {
		name := c.Name()
		r.order = append(r.order, name)
		r.connectors[name] = c
		r.state[name] = &Integration{
			Name:           name,
			DisplayName:    c.DisplayName(),
			Description:    c.Description(),
			RequiredFields: c.RequiredFields(),
			Status:         StatusDisconnected,
		}
	}
	r.initialized = true
}

// List returns every integration in registration order.
func (r *Registry) List() []Integration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Integration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.state[name])
	}
	return out
}

// Get returns one integration.
func (r *Registry) Get(name string) (Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.state[name]
	if !ok {
		return Integration{}, ErrUnknownIntegration
	}
	return *st, nil
}

func (r *Registry) connector(name string) (Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connectors[name]
	if !ok {
		return nil, ErrUnknownIntegration
	}
	return c, nil
}

// Connect submits credentials to the named connector.
func (r *Registry) Connect(ctx context.Context, name string, creds Credentials) (Integration, error) {
	c, err := r.connector(name)
	if err != nil {
		return Integration{}, err
	}
	conn, err := c.Connect(ctx, creds)
	return r.record(name, conn, err)
}

// Complete finishes an OAuth connection.
func (r *Registry) Complete(ctx context.Context, name, state, code string) (Integration, error) {
	c, err := r.connector(name)
	if err != nil {
		return Integration{}, err
	}
	completer, ok := c.(Completer)
	if !ok {
		return Integration{}, &ConnectionError{Integration: name, Reason: "does not use OAuth"}
	}
	conn, err := completer.Complete(ctx, state, code)
	return r.record(name, conn, err)
}

func (r *Registry) record(name string, conn Connection, err error) (Integration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[name]
	if err != nil {
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			st.Status = StatusError
		}
		st.LastError = err.Error()
		telemetry.Warn("integrations.connect_failed", map[string]any{
			"integration": name,
			"error":       err,
		})
		return *st, err
	}
	st.Status = conn.Status
	st.Account = conn.Account
	st.AuthURL = conn.AuthURL
	st.LastError = ""
	if conn.Status == StatusConnected {
		now := r.now().UTC()
		st.ConnectedAt = &now
		st.AuthURL = ""
	}
	telemetry.Info("integrations.connect", map[string]any{
		"integration": name,
		"status":      st.Status,
	})
	return *st, nil
}

// Sync runs the connector's sync if it is connected.
func (r *Registry) Sync(ctx context.Context, name string) (Integration, SyncResult, error) {
	c, err := r.connector(name)
	if err != nil {
		return Integration{}, SyncResult{}, err
	}
	r.mu.Lock()
	status := r.state[name].Status
	r.mu.Unlock()
	if status != StatusConnected {
		return Integration{}, SyncResult{}, ErrNotConnected
	}

	res, err := c.Sync(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[name]
	if err != nil {
		st.LastError = err.Error()
		telemetry.Error("integrations.sync_failed", map[string]any{
			"integration": name,
			"error":       err,
		})
		return *st, SyncResult{}, err
	}
	syncedAt := res.SyncedAt
	st.LastSyncAt = &syncedAt
	st.ItemsSynced = res.ItemsSynced
	st.LastError = ""
	return *st, res, nil
}

// Disconnect clears the connection state.
func (r *Registry) Disconnect(name string) (Integration, error) {
	c, err := r.connector(name)
	if err != nil {
		return Integration{}, err
	}
	if d, ok := c.(Disconnecter); ok {
		d.Disconnect()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[name]
	*st = Integration{
		Name:           st.Name,
		DisplayName:    st.DisplayName,
		Description:    st.Description,
		RequiredFields: st.RequiredFields,
		Status:         StatusDisconnected,
	}
	return *st, nil
}
