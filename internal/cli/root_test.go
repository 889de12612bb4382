package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/S-Corkum/sae-inference/internal/api"
	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/S-Corkum/sae-inference/pkg/models"
	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := sae.NewEngine(sae.DefaultConfig(), sae.WithSamplerFactory(sae.SeededSamplerFactory(1)))
	require.NoError(t, err)

	cfg := api.DefaultConfig()
	cfg.RateLimit.Enabled = false
	ts := httptest.NewServer(api.NewServer(engine, cfg, observability.NewNoopLogger(), nil).Router())
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHealthCommand(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy","service":"sae-inference"}`, out)
}

func TestEncodeCommand(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "encode", "--layer", "6", "hello", "world")
	require.NoError(t, err)

	var result models.EncodingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "hello world", result.Text)
	assert.Equal(t, 6, result.Layer)
}

func TestEncodeCommand_DefaultLayer(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "encode", "hello")
	require.NoError(t, err)

	var result models.EncodingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 12, result.Layer)
}

func TestFeatureCommand_YAML(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "-o", "yaml", "feature", "5")
	require.NoError(t, err)

	var metadata models.FeatureMetadata
	require.NoError(t, yaml.Unmarshal([]byte(out), &metadata))
	assert.Equal(t, 5, metadata.FeatureID)
	assert.Contains(t, out, "top_tokens:")
}

func TestSearchCommand(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "search", "--limit", "3", "happy", "thoughts")
	require.NoError(t, err)

	var result models.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "happy thoughts", result.Query)
	assert.Len(t, result.Features, 3)
}

func TestSearchCommand_YAMLInlinesMetadata(t *testing.T) {
	ts := newAPIServer(t)

	out, err := run(t, "--server", ts.URL, "--output", "yaml", "search", "-n", "1", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "relevance_score:")
	assert.Contains(t, out, "feature_id:")
	assert.NotContains(t, out, "featuremetadata")
}

func TestCommandErrors(t *testing.T) {
	ts := newAPIServer(t)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"bad output", []string{"--server", ts.URL, "-o", "xml", "health"}, "unsupported output format"},
		{"non-numeric feature", []string{"--server", ts.URL, "feature", "abc"}, "invalid feature ID"},
		{"out of range feature", []string{"--server", ts.URL, "feature", "99999"}, "Invalid feature ID"},
		{"missing text", []string{"--server", ts.URL, "encode"}, "requires at least 1 arg"},
		{"unreachable server", []string{"--server", "http://127.0.0.1:1", "--retries", "0", "health"}, "health check failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
