package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-backend/internal/shared/config"
)

func TestClassifyCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"classify", "RFP_Highway_2025.pdf", "docs/company_brochure.pdf", "tax_clearance.pdf"})

	require.NoError(t, cmd.Execute())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "tender")
	assert.Contains(t, lines[1], "Request for Proposal")
	assert.Contains(t, lines[2], "company")
	assert.Contains(t, lines[3], "supporting")
	assert.Contains(t, lines[3], "Tax Clearance Certificate")
}

func TestClassifyRequiresArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"classify"})
	assert.Error(t, cmd.Execute())
}

func TestApplyOverrides(t *testing.T) {
	v := viper.New()
	v.Set("object-store", "GCS")
	v.Set("llm-provider", "openai")

	got := applyOverrides(config.Config{ObjectStoreType: "local", LLMProvider: "gemini", DatabaseURL: "postgres://keep"}, v)
	assert.Equal(t, "gcs", got.ObjectStoreType)
	assert.Equal(t, "openai", got.LLMProvider)
	assert.Equal(t, "postgres://keep", got.DatabaseURL)
}

func TestIngestCommandInMemory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "RFQ_Roads.txt")
	require.NoError(t, os.WriteFile(path, []byte("Bidders must hold CIDB grade 7."), 0o600))

	t.Setenv("ENV", "dev")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OBJECT_STORE", "local")
	t.Setenv("LOCAL_STORE_DIR", filepath.Join(dir, "store"))
	t.Setenv("LLM_PROVIDER", "none")
	t.Setenv("EVENTS_SQS_QUEUE_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ingest", path, "--tender", "roads"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"tenderId":"roads"`)
	assert.Contains(t, out.String(), `"name":"RFQ_Roads.txt"`)
}
