package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUESTDB_HOST", "questdb")
	t.Setenv("BATCH_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storage-group", cfg.Kafka.GroupID)
	assert.Equal(t, "stock-raw", cfg.Kafka.TickTopic)
	assert.Equal(t, 50, cfg.Batch.Size)
	assert.Equal(t, time.Second, cfg.Batch.FlushInterval)
	assert.Equal(t, "questdb", cfg.QuestDB.Host)
	assert.Equal(t, 8812, cfg.QuestDB.Port)
}

func TestLoad_RejectsZeroBatch(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BATCH_SIZE", "0")

	_, err := Load()
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidConfigurationError)))
}
