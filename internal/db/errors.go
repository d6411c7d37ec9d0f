package db

import "errors"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("db: store closed")

// Op constants map to Valkey/Redis command names for error context.
const (
	OpDel     = "DEL"
	OpHDel    = "HDEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpExists  = "EXISTS"
	OpExpire  = "EXPIRE"
	OpPing    = "PING"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
