package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
log:
  level: debug
  format: console
processing:
  max_file_size_mb: 50
  ocr_binary: tesseract
  ocr_args: ["--psm", "1"]
  ocr_timeout: 90s
firm:
  name: "Kovalenko & Reyes LLP"
  address: "350 Fifth Avenue, Suite 7710, New York, NY 10118"
  phone: "(212) 555-0187"
  email: "intake@krfirm.example"
  default_court: "UNITED STATES DISTRICT COURT"
  default_district: "Southern District of New York"
output:
  root: /srv/tiger/output
  policy: overwrite
events:
  buffer_size: 64
  kafka:
    enabled: true
    brokers: ["kafka-1:9092", "kafka-2:9092"]
    topic: tiger.case.events
redis:
  enabled: true
  addr: cache:6379
  db: 2
archive:
  enabled: true
  endpoint: minio:9000
  access_key_id: tiger
  secret_access_key: hunter2
  bucket: case-archive
search:
  enabled: true
  addresses: ["http://opensearch:9200"]
  index: tiger-cases
metrics:
  enabled: true
  listen: ":9464"
  namespace: tiger
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.Equal(t, 50, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, "tesseract", cfg.Processing.OCRBinary)
	assert.Equal(t, []string{"--psm", "1"}, cfg.Processing.OCRArgs)
	assert.Equal(t, 90*time.Second, cfg.Processing.OCRTimeout)

	assert.Equal(t, "Kovalenko & Reyes LLP", cfg.Firm.Name)
	assert.Equal(t, "Southern District of New York", cfg.Firm.DefaultDistrict)

	assert.Equal(t, "/srv/tiger/output", cfg.Output.Root)
	assert.Equal(t, "overwrite", cfg.Output.Policy)

	assert.Equal(t, 64, cfg.Events.BufferSize)
	assert.True(t, cfg.Events.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Kafka.Brokers)
	assert.Equal(t, "tiger.case.events", cfg.Events.Kafka.Topic)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)

	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "minio:9000", cfg.Archive.Endpoint)
	assert.Equal(t, "case-archive", cfg.Archive.Bucket)

	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, []string{"http://opensearch:9200"}, cfg.Search.Addresses)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9464", cfg.Metrics.Listen)
	assert.Equal(t, "tiger", cfg.Metrics.Namespace)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfigFile(t, "output: ["))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfigFile(t, "output:\n  policy: purge\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.policy")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, "firm:\n  name: Test Firm\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultMaxFileSizeMB, cfg.Processing.MaxFileSizeMB)
	assert.Equal(t, DefaultOutputRoot, cfg.Output.Root)
	assert.Equal(t, DefaultOutputPolicy, cfg.Output.Policy)
	assert.Equal(t, DefaultEventBufferSize, cfg.Events.BufferSize)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)

	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Archive.Enabled)
	assert.False(t, cfg.Search.Enabled)
	assert.False(t, cfg.Events.Kafka.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TIGER_OUTPUT_ROOT", "/env/output")
	t.Setenv("TIGER_REDIS_ADDR", "env-redis:6379")
	t.Setenv("TIGER_PROCESSING_MAX_FILE_SIZE_MB", "25")

	cfg, err := Load(writeConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "/env/output", cfg.Output.Root)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 25, cfg.Processing.MaxFileSizeMB)
}

func TestLoadFromEnv_NoFileNeeded(t *testing.T) {
	t.Setenv("TIGER_FIRM_NAME", "Env Firm LLP")
	t.Setenv("TIGER_REDIS_ENABLED", "true")
	t.Setenv("TIGER_REDIS_ADDR", "cache.internal:6379")
	t.Setenv("TIGER_SEARCH_ENABLED", "true")
	t.Setenv("TIGER_SEARCH_ADDRESSES", "http://os-1:9200,http://os-2:9200")
	t.Setenv("TIGER_OUTPUT_POLICY", "error")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Env Firm LLP", cfg.Firm.Name)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, []string{"http://os-1:9200", "http://os-2:9200"}, cfg.Search.Addresses)
	assert.Equal(t, "error", cfg.Output.Policy)

	assert.Equal(t, DefaultOutputRoot, cfg.Output.Root)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoadFromEnv_InvalidValueFailsValidation(t *testing.T) {
	t.Setenv("TIGER_LOG_LEVEL", "verbose")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestWatch_DeliversValidReload(t *testing.T) {
	path := writeConfigFile(t, "firm:\n  name: Before\n")

	reloaded := make(chan *Config, 8)
	Watch(path, func(cfg *Config) { reloaded <- cfg })

	require.NoError(t, os.WriteFile(path, []byte("firm:\n  name: After\n"), 0o644))

	waitForReload(t, reloaded, "After")
}

// waitForReload drains the channel until a reload carries the wanted firm
// name. The watcher may deliver intermediate states for one save, so the
// first delivery is not necessarily the final content.
func waitForReload(t *testing.T, reloaded <-chan *Config, wantFirm string) {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			if cfg.Firm.Name == wantFirm {
				return
			}
		case <-deadline:
			t.Fatalf("no reload with firm.name %q was delivered", wantFirm)
		}
	}
}

func TestWatch_SkipsInvalidReload(t *testing.T) {
	path := writeConfigFile(t, "firm:\n  name: Before\n")

	reloaded := make(chan *Config, 8)
	Watch(path, func(cfg *Config) { reloaded <- cfg })

	// An invalid save must not reach the callback; the next valid save must.
	require.NoError(t, os.WriteFile(path, []byte("output:\n  policy: purge\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("firm:\n  name: Fixed\n"), 0o644))

	waitForReload(t, reloaded, "Fixed")

	for {
		select {
		case cfg := <-reloaded:
			assert.NotEqual(t, "purge", cfg.Output.Policy)
		default:
			return
		}
	}
}

func TestMustLoad_Success(t *testing.T) {
	path := writeConfigFile(t, validConfigYAML)
	assert.NotPanics(t, func() { MustLoad(path) })
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}
