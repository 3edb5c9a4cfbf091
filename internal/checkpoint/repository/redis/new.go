package redis

import (
	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/pkg/log"
	pkgRedis "stock-stream-srv/pkg/redis"
)

type implRepository struct {
	redis pkgRedis.IRedis
	key   string
	l     log.Logger
}

// New - Factory function. The checkpoint lives under "<prefix>:<location>".
func New(redis pkgRedis.IRedis, prefix, location string, l log.Logger) repository.Store {
	return &implRepository{
		redis: redis,
		key:   Key(prefix, location),
		l:     l,
	}
}

// Key builds the redis key for a checkpoint location.
func Key(prefix, location string) string {
	if prefix == "" {
		return location
	}
	return prefix + ":" + location
}
