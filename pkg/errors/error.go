package errors

import (
	"bytes"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a key from Redis.
	RedisDelError ErrorCode = "redis_del_error"

	// KafkaReadError represents a failure to read a submission off the
	// order feed.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaCommitError represents a failure to commit a consumer offset.
	KafkaCommitError ErrorCode = "kafka_commit_error"
	// KafkaPublishError represents a failure to publish a trade event.
	KafkaPublishError ErrorCode = "kafka_publish_error"

	// SnapshotMarshalError represents a failure to serialize a snapshot.
	SnapshotMarshalError ErrorCode = "snapshot_marshal_error"
	// SnapshotStoreError represents a failure to persist a snapshot.
	SnapshotStoreError ErrorCode = "snapshot_store_error"
	// SnapshotLoadError represents a failure to retrieve a snapshot.
	SnapshotLoadError ErrorCode = "snapshot_load_error"
)

// BaseError is an `error` type containing one or more ErrorDetails, so that
// several failures can be reported together rather than just the first.
// The adapters in this module return a single *ErrorDetails directly and do
// not build a BaseError.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError creates a BaseError from one or more ErrorDetails.
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails appends more ErrorDetails to the error.
func (b *BaseError) AddErrorDetails(details ...*ErrorDetails) {
	b.details = append(b.details, details...)
}

// GetDetails returns the ErrorDetails accumulated on this error.
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// Error implements the error interface.
func (b *BaseError) Error() string {
	buf := bytes.NewBufferString("")
	for _, d := range b.details {
		buf.WriteString("code: ")
		buf.WriteString(string(d.Code))
		buf.WriteString("; error: ")
		buf.WriteString(d.Error())
		if d.Field != "" {
			buf.WriteString("; field: ")
			buf.WriteString(d.Field)
		}
		buf.WriteString("\n")
	}
	return strings.TrimSpace(buf.String())
}

// IsAnyCodeEqual reports whether any contained ErrorDetails has the given
// code.
func (b *BaseError) IsAnyCodeEqual(code ErrorCode) bool {
	for _, d := range b.details {
		if d.Code == code {
			return true
		}
	}
	return false
}
