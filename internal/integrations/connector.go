package integrations

import (
	"context"
	"strings"
	"time"
)

// Connector is implemented by every integration, demo or live.
type Connector interface {
	Name() string
	DisplayName() string
	Description() string
	RequiredFields() []string
	Connect(ctx context.Context, creds Credentials) (Connection, error)
	Sync(ctx context.Context) (SyncResult, error)
}

// Completer is implemented by connectors that finish connecting through an
// OAuth redirect.
type Completer interface {
	Complete(ctx context.Context, state, code string) (Connection, error)
}

// Disconnecter is implemented by connectors holding credentials that must be dropped.
type Disconnecter interface {
	Disconnect()
}

// DemoConnector accepts any credentials whose required fields are non-empty and
// reports a fixed number of synced items.
type DemoConnector struct {
	name        string
	displayName string
	description string
	fields      []string
	items       int
	now         func() time.Time
}

func (d *DemoConnector) Name() string            { return d.name }
func (d *DemoConnector) DisplayName() string     { return d.displayName }
func (d *DemoConnector) Description() string     { return d.description }
func (d *DemoConnector) RequiredFields() []string { return append([]string(nil), d.fields...) }

// Connect validates that every required field is present.
func (d *DemoConnector) Connect(ctx context.Context, creds Credentials) (Connection, error) {
	if err := requireFields(d.name, d.fields, creds); err != nil {
		return Connection{}, err
	}
	account := creds[d.fields[0]]
	return Connection{Status: StatusConnected, Account: account}, nil
}

// Sync pretends to pull items from the remote system.
func (d *DemoConnector) Sync(ctx context.Context) (SyncResult, error) {
	if err := ctx.Err(); err != nil {
		return SyncResult{}, err
	}
	now := time.Now
	if d.now != nil {
		now = d.now
	}
	return SyncResult{ItemsSynced: d.items, SyncedAt: now().UTC(), Message: "demo data"}, nil
}

func requireFields(integration string, fields []string, creds Credentials) error {
	for _, f := range fields {
		if strings.TrimSpace(creds[f]) == "" {
			return &ConnectionError{Integration: integration, Field: f, Reason: "is required"}
		}
	}
	return nil
}

// DemoConnectors returns the connectors that simulate remote systems.
func DemoConnectors() []Connector {
	return []Connector{
		&DemoConnector{
			name:        "sharepoint",
			displayName: "SharePoint",
			description: "Import tender packs from a SharePoint document library.",
			fields:      []string{"site_url", "client_id", "client_secret"},
			items:       12,
		},
		&DemoConnector{
			name:        "salesforce",
			displayName: "Salesforce",
			description: "Link opportunities to tenders and push bid outcomes.",
			fields:      []string{"instance_url", "username", "api_token"},
			items:       8,
		},
		&DemoConnector{
			name:        "slack",
			displayName: "Slack",
			description: "Post upload and deadline notifications to a channel.",
			fields:      []string{"workspace", "bot_token", "channel"},
			items:       0,
		},
		&DemoConnector{
			name:        "tenders_portal",
			displayName: "Government Tenders Portal",
			description: "Pull newly advertised tenders matching saved searches.",
			fields:      []string{"portal_url", "api_key"},
			items:       25,
		},
	}
}

// Connectors returns the connector set for mode. Live mode swaps in the OAuth
// Google Drive connector; the others have no live implementation yet.
func Connectors(mode string) []Connector {
	out := DemoConnectors()
	if mode == ModeLive {
		return append(out, NewGoogleDriveConnector())
	}
	return append(out, &DemoConnector{
		name:        GoogleDriveName,
		displayName: "Google Drive",
		description: googleDriveDescription,
		fields:      []string{"client_id", "client_secret", "redirect_url"},
		items:       5,
	})
}
