package questdb

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const pgWirePort = "8812/tcp"

// TestContainer is a throwaway QuestDB instance for integration tests.
type TestContainer struct {
	Container testcontainers.Container
	Client    QuestDBClient
	Config    Config
}

// TestContainerConfig holds configuration for the test container
type TestContainerConfig struct {
	Image          string
	Username       string
	Password       string
	StartupTimeout time.Duration
}

// DefaultTestContainerConfig returns a default configuration
func DefaultTestContainerConfig() *TestContainerConfig {
	return &TestContainerConfig{
		Image:          "questdb/questdb:8.2.3",
		Username:       "admin",
		Password:       "quest",
		StartupTimeout: 2 * time.Minute,
	}
}

// NewTestContainer starts QuestDB and connects a client to its PG wire port.
func NewTestContainer(ctx context.Context, config *TestContainerConfig) (*TestContainer, error) {
	if config == nil {
		config = DefaultTestContainerConfig()
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        config.Image,
			ExposedPorts: []string{pgWirePort},
			Env: map[string]string{
				"QDB_PG_USER":     config.Username,
				"QDB_PG_PASSWORD": config.Password,
			},
			WaitingFor: wait.ForListeningPort(pgWirePort).WithStartupTimeout(config.StartupTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start questdb container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, pgWirePort)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	clientConfig := Config{
		Host:            host,
		Port:            port.Int(),
		Database:        "qdb",
		Username:        config.Username,
		Password:        config.Password,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  10 * time.Second,
	}

	// The port can accept before the server answers queries.
	var client QuestDBClient
	deadline := time.Now().Add(config.StartupTimeout)
	for {
		client, err = NewClient(ctx, clientConfig)
		if err == nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestContainer{
		Container: container,
		Client:    client,
		Config:    clientConfig,
	}, nil
}

// Close closes the client and terminates the container.
func (tc *TestContainer) Close(ctx context.Context) error {
	if tc.Client != nil {
		tc.Client.Close()
	}
	if tc.Container != nil {
		return tc.Container.Terminate(ctx)
	}
	return nil
}
