package minio

import (
	"path"
	"strings"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/pkg/log"
	pkgMinio "stock-stream-srv/pkg/minio"
)

// ObjectName is the checkpoint object inside the location prefix.
const ObjectName = "checkpoint.json"

type implRepository struct {
	minio  pkgMinio.ObjectStore
	bucket string
	object string
	l      log.Logger
}

// New - Factory function. The checkpoint lives at "<location>/checkpoint.json" in bucket.
func New(minio pkgMinio.ObjectStore, bucket, location string, l log.Logger) repository.Store {
	return &implRepository{
		minio:  minio,
		bucket: bucket,
		object: objectKey(location),
		l:      l,
	}
}

// objectKey roots location so "." and ".." segments resolve, then drops the leading slash.
func objectKey(location string) string {
	prefix := strings.TrimPrefix(path.Clean("/"+location), "/")
	return path.Join(prefix, ObjectName)
}
