package main

import "errors"

// errPipelineStopped cancels the group after a clean pipeline stop.
var errPipelineStopped = errors.New("pipeline stopped")
