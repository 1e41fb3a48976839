package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad input error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// MalformedTickError is raised when a tick misses a required field or carries a non-finite price.
	MalformedTickError ErrorCode = "malformed_tick"
	// InvalidConfigurationError is raised when startup configuration violates an invariant.
	InvalidConfigurationError ErrorCode = "invalid_configuration"

	// KafkaReadError represents an error when reading a message from Kafka.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaCommitError represents an error when committing consumed Kafka messages.
	KafkaCommitError ErrorCode = "kafka_commit_error"
	// KafkaPublishError represents an error when writing a message to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// SnapshotLoadError represents an error when reading a history snapshot.
	SnapshotLoadError ErrorCode = "snapshot_load_error"
	// SnapshotStoreError represents an error when writing a history snapshot.
	SnapshotStoreError ErrorCode = "snapshot_store_error"

	// QuestDBStoreError represents an error when writing rows to QuestDB.
	QuestDBStoreError ErrorCode = "questdb_store_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisHGetAllError represents an error when reading a whole hash from Redis.
	RedisHGetAllError ErrorCode = "redis_hgetall_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
	// RedisHDelError represents an error when deleting fields from a hash in Redis.
	RedisHDelError ErrorCode = "redis_hdel_error"
)

// String returns the raw code.
func (c ErrorCode) String() string {
	return string(c)
}
