package file

import (
	"path/filepath"

	"stock-stream-srv/internal/checkpoint/repository"
	"stock-stream-srv/pkg/log"
)

// FileName is the checkpoint file inside the location directory.
const FileName = "checkpoint.json"

type implRepository struct {
	dir  string
	path string
	l    log.Logger
}

// New - Factory function. dir is the per-topic checkpoint location.
func New(dir string, l log.Logger) repository.Store {
	return &implRepository{
		dir:  dir,
		path: filepath.Join(dir, FileName),
		l:    l,
	}
}
