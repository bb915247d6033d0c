package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleDriveName is the registry key of the Google Drive connector.
const GoogleDriveName = "google_drive"

const googleDriveDescription = "Import tender documents from a shared Google Drive folder."

const driveFilesURL = "https://www.googleapis.com/drive/v3/files?pageSize=100&fields=files(id,name)"

// GoogleDriveConnector connects through the Google OAuth consent flow.
type GoogleDriveConnector struct {
	endpoint oauth2.Endpoint
	filesURL string
	stateTTL time.Duration
	states   *stateStore

	mu     sync.Mutex
	config *oauth2.Config
	token  *oauth2.Token
}

// NewGoogleDriveConnector builds a connector against Google's endpoints.
func NewGoogleDriveConnector() *GoogleDriveConnector {
	return &GoogleDriveConnector{
		endpoint: google.Endpoint,
		filesURL: driveFilesURL,
		stateTTL: 10 * time.Minute,
		states:   newStateStore(),
	}
}

func (g *GoogleDriveConnector) Name() string        { return GoogleDriveName }
func (g *GoogleDriveConnector) DisplayName() string { return "Google Drive" }
func (g *GoogleDriveConnector) Description() string { return googleDriveDescription }
func (g *GoogleDriveConnector) RequiredFields() []string {
	return []string{"client_id", "client_secret", "redirect_url"}
}

// Connect stores the OAuth client and returns the consent URL.
func (g *GoogleDriveConnector) Connect(ctx context.Context, creds Credentials) (Connection, error) {
	if err := requireFields(GoogleDriveName, g.RequiredFields(), creds); err != nil {
		return Connection{}, err
	}
	cfg := &oauth2.Config{
		ClientID:     creds["client_id"],
		ClientSecret: creds["client_secret"],
		RedirectURL:  creds["redirect_url"],
		Scopes:       []string{"https://www.googleapis.com/auth/drive.readonly"},
		Endpoint:     g.endpoint,
	}
	state := uuid.NewString()
	g.states.put(state, time.Now().Add(g.stateTTL))

	g.mu.Lock()
	g.config = cfg
	g.token = nil
	g.mu.Unlock()

	return Connection{
		Status:  StatusPending,
		AuthURL: cfg.AuthCodeURL(state, oauth2.AccessTypeOffline),
	}, nil
}

// Complete exchanges the authorization code from the OAuth callback.
func (g *GoogleDriveConnector) Complete(ctx context.Context, state, code string) (Connection, error) {
	if state == "" || code == "" {
		return Connection{}, &ConnectionError{Integration: GoogleDriveName, Reason: "missing state or code"}
	}
	if !g.states.consume(state) {
		return Connection{}, &ConnectionError{Integration: GoogleDriveName, Field: "state", Reason: "is invalid or expired"}
	}
	g.mu.Lock()
	cfg := g.config
	g.mu.Unlock()
	if cfg == nil {
		return Connection{}, ErrNotConnected
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return Connection{}, fmt.Errorf("exchange code: %w", err)
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	return Connection{Status: StatusConnected, Account: cfg.ClientID}, nil
}

type driveFiles struct {
	Files []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"files"`
}

// Sync lists the files visible to the authorized account.
func (g *GoogleDriveConnector) Sync(ctx context.Context) (SyncResult, error) {
	g.mu.Lock()
	cfg, token := g.config, g.token
	g.mu.Unlock()
	if cfg == nil || token == nil {
		return SyncResult{}, ErrNotConnected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.filesURL, nil)
	if err != nil {
		return SyncResult{}, err
	}
	resp, err := cfg.Client(ctx, token).Do(req)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list drive files: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SyncResult{}, fmt.Errorf("list drive files: status %d", resp.StatusCode)
	}

	var files driveFiles
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return SyncResult{}, fmt.Errorf("decode drive files: %w", err)
	}
	return SyncResult{ItemsSynced: len(files.Files), SyncedAt: time.Now().UTC()}, nil
}

// Disconnect drops the stored client and token.
func (g *GoogleDriveConnector) Disconnect() {
	g.mu.Lock()
	g.config = nil
	g.token = nil
	g.mu.Unlock()
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	s.items[state] = exp
	s.mu.Unlock()
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	return !time.Now().After(exp)
}
