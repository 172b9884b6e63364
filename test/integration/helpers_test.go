//go:build integration

// Package integration exercises the pipeline's external adapters against
// real backends. Redis, MinIO, and OpenSearch run as throwaway containers;
// Kafka tests dial the broker named by TIGER_TEST_KAFKA_BROKERS and skip
// when it is unset. Tests require Docker and are gated behind the
// "integration" build tag.
package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/caselens/tiger/internal/infrastructure/monitoring/logging"
)

const (
	redisImage      = "redis:7-alpine"
	minioImage      = "minio/minio:RELEASE.2024-01-16T16-07-38Z"
	opensearchImage = "opensearchproject/opensearch:2.11.1"

	minioAccessKey = "tiger-it"
	minioSecretKey = "tiger-it-secret"

	// EnvKafkaBrokers names an external broker list for the Kafka tests.
	// A single-node broker cannot advertise a listener it learns only after
	// start, so Kafka is not containerized here the way the stores are.
	EnvKafkaBrokers = "TIGER_TEST_KAFKA_BROKERS"
)

func testLogger() logging.Logger {
	return logging.NewNopLogger()
}

// startRedis launches a Redis 7 container and returns its host:port address.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// startMinIO launches a MinIO container and returns its endpoint. The static
// root credentials are minioAccessKey / minioSecretKey.
func startMinIO(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        minioImage,
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioAccessKey,
			"MINIO_ROOT_PASSWORD": minioSecretKey,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").
			WithPort("9000/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

var (
	opensearchOnce sync.Once
	opensearchURL  string
	opensearchErr  error
)

// sharedOpenSearch returns the URL of a single-node OpenSearch cluster with
// the security plugin disabled. The cluster takes the better part of a
// minute to boot, so one container serves the whole test binary and each
// test works in its own index. The reaper removes it after the run.
func sharedOpenSearch(t *testing.T) string {
	t.Helper()
	opensearchOnce.Do(func() {
		opensearchURL, opensearchErr = launchOpenSearch()
	})
	if opensearchErr != nil {
		t.Fatalf("failed to start OpenSearch container: %v", opensearchErr)
	}
	return opensearchURL
}

func launchOpenSearch() (string, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        opensearchImage,
		ExposedPorts: []string{"9200/tcp"},
		Env: map[string]string{
			"discovery.type":          "single-node",
			"DISABLE_SECURITY_PLUGIN": "true",
			"OPENSEARCH_JAVA_OPTS":    "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForHTTP("/_cluster/health").
			WithPort("9200/tcp").
			WithStartupTimeout(180 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", err
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, "9200")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port()), nil
}

// kafkaBrokers returns the external broker list, skipping the test when none
// is configured.
func kafkaBrokers(t *testing.T) []string {
	t.Helper()
	raw := os.Getenv(EnvKafkaBrokers)
	if raw == "" {
		t.Skipf("skipping kafka integration test: set %s to a broker list to enable", EnvKafkaBrokers)
	}
	brokers := strings.Split(raw, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}
