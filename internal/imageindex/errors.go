package imageindex

import "errors"

// ErrFormat indicates a malformed or truncated index stream.
var ErrFormat = errors.New("invalid index format")

// ErrNotFound indicates that a path or id is not present in an index.
var ErrNotFound = errors.New("not found in index")

// ErrDuplicateID indicates that a record with the same id is already indexed.
var ErrDuplicateID = errors.New("duplicate image id")
