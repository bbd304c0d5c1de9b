package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Remote.URL)
	assert.Empty(t, cfg.Store.Path)
	assert.Empty(t, cfg.Embedding.Provider)
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[remote]
url = "https://example.supabase.co"
key = "service-key"

[store]
path = "/tmp/prompts.json"

[embedding]
provider = "ollama"
model = "nomic-embed-text"

[data]
dir = "/tmp/promptrec-data"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.supabase.co", cfg.Remote.URL)
	assert.Equal(t, "service-key", cfg.Remote.Key)
	assert.Equal(t, "/tmp/prompts.json", cfg.Store.Path)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "/tmp/promptrec-data", cfg.Data.Dir)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[remote\nurl="), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[remote]\nurl = \"https://file.example\"\n"), 0600))

	t.Setenv("PROMPTREC_REMOTE_URL", "https://env.example")
	t.Setenv("PROMPTREC_REMOTE_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.Remote.URL)
	assert.Equal(t, "env-key", cfg.Remote.Key)
}

func TestSupabaseEnvNamesAccepted(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://legacy.supabase.co")
	t.Setenv("SUPABASE_KEY", "legacy-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://legacy.supabase.co", cfg.Remote.URL)
	assert.Equal(t, "legacy-key", cfg.Remote.Key)
}

func TestPromptrecEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("PROMPTREC_REMOTE_URL", "https://new.example")
	t.Setenv("SUPABASE_URL", "https://legacy.supabase.co")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "https://new.example", cfg.Remote.URL)
}
