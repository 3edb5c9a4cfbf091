package minio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
)

// implMinIO implements MinIO.
type implMinIO struct {
	minioClient *minio.Client
	region      string
	mu          sync.RWMutex
	connected   bool
}

// ErrorCode classifies storage failures.
type ErrorCode string

const (
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeConnection     ErrorCode = "CONNECTION"
	ErrCodePermission     ErrorCode = "PERMISSION"
	ErrCodeBucketNotFound ErrorCode = "BUCKET_NOT_FOUND"
	ErrCodeObjectNotFound ErrorCode = "OBJECT_NOT_FOUND"
)

// StorageError is returned by every MinIO operation.
type StorageError struct {
	Code      ErrorCode
	Message   string
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("minio %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("minio %s: %s", e.Operation, e.Message)
}

func (e *StorageError) Unwrap() error { return e.Cause }

func NewInvalidInputError(msg string) *StorageError {
	return &StorageError{Code: ErrCodeInvalidInput, Message: msg, Operation: "validate"}
}

func NewConnectionError(err error) *StorageError {
	return &StorageError{Code: ErrCodeConnection, Message: "connection failed", Operation: "connect", Cause: err}
}

// IsNotFound reports whether err is a missing bucket or object.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && (se.Code == ErrCodeObjectNotFound || se.Code == ErrCodeBucketNotFound)
}
