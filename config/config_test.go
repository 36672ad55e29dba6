package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"ENV", "HTTP_ADDR", "CHAIN_ID", "LIST_DATA_BASE", "DATA_BASE", "RESERVOIR_API_KEY",
	"HTTP_TIMEOUT", "MAX_PAGES", "REFRESH_INTERVAL", "META_TITLE", "META_DESCRIPTION",
	"META_OG_IMAGE", "TAGLINE", "FOOTER_TEXT", "REDIRECT_HOMEPAGE", "COLLECTION", "COMMUNITY",
	"COLLECTION_SET_ID", "LEADERBOARD_SIZE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CACHE_TTL", "MYSQL_DSN",
}

// isolate 切到空目录并清掉相关环境变量
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func TestLoad_Defaults_When_NothingConfigured(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "explorer.scamsniffer.io", cfg.Page.Footer)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIBase)
}

func TestLoad_ListDataBaseWinsOverDataBase(t *testing.T) {
	isolate(t)
	t.Setenv("DATA_BASE", "https://data.example.com")
	t.Setenv("LIST_DATA_BASE", "https://list.example.com/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://list.example.com", cfg.APIBase)
	assert.Equal(t, "https://list.example.com/v1/summary.json", cfg.SummaryURL())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLThenEnvOverride(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "report.yaml")
	yml := `
chain_id: "1"
api_base: https://yaml.example.com
http_timeout: 3s
leaderboard_size: 5
page:
  meta_title: Weekly
  tagline: from yaml
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("TAGLINE", "from env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.ChainID)
	assert.Equal(t, "https://yaml.example.com", cfg.APIBase)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.LeaderboardSize)
	assert.Equal(t, "Weekly", cfg.Page.MetaTitle)
	assert.Equal(t, "from env", cfg.Page.Tagline)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := isolate(t)
	env := "CHAIN_ID=137\nDATA_BASE=https://dotenv.example.com\nREDIRECT_HOMEPAGE=true\nCOLLECTION=0xabc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "137", cfg.ChainID)
	assert.Equal(t, "https://dotenv.example.com", cfg.APIBase)
	assert.True(t, cfg.Page.RedirectHomepage)
	assert.Equal(t, "0xabc", cfg.Page.Collection)
}

func TestLoad_MissingFile(t *testing.T) {
	isolate(t)

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoad_BadNumbersKeepDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("LEADERBOARD_SIZE", "ten")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestValidate_RejectsNonPositiveSize(t *testing.T) {
	cfg := Default()
	cfg.APIBase = "https://x"
	cfg.LeaderboardSize = 0

	assert.Error(t, cfg.Validate())
}

func TestLoad_UpstreamFilters(t *testing.T) {
	isolate(t)
	t.Setenv("DATA_BASE", "https://data.example.com")
	t.Setenv("COMMUNITY", "artblocks")
	t.Setenv("COLLECTION_SET_ID", "set-1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "artblocks", cfg.Community)
	assert.Equal(t, "set-1", cfg.CollectionSetID)
}
