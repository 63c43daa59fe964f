package schema

import (
	"fmt"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Range selects a byte range for a read. A negative Length reads to the
// end of the object. The zero value selects the whole object.
type Range struct {
	Offset int64 `json:"offset,omitempty"`
	Length int64 `json:"length,omitempty"`
}

// OpCreateDir carries the arguments for a create_dir call.
type OpCreateDir struct{}

// OpRead carries the arguments for a read call.
type OpRead struct {
	Range Range `json:"range,omitzero"`
}

// OpWrite carries the arguments for a write call. Append is capability
// gated: backends without CapWriteAppend fail before any bytes are staged.
type OpWrite struct {
	Append      bool       `json:"append,omitempty"`
	ContentType string     `json:"type,omitempty"`
	Meta        ObjectMeta `json:"meta,omitempty"`
}

// OpStat carries the arguments for a stat call.
type OpStat struct{}

// OpDelete carries the arguments for a delete call.
type OpDelete struct{}

// OpList carries the arguments for a list call. A zero Limit lists all
// immediate children.
type OpList struct {
	Limit int `json:"limit,omitempty"`
}

// OpScan carries the arguments for a recursive listing.
type OpScan struct {
	Limit int `json:"limit,omitempty"`
}

// OpCopy carries the arguments for a same-backend copy.
type OpCopy struct{}

// BatchOperation is one path-scoped operation within a batch. Deletion is
// the only batched operation in this release.
type BatchOperation struct {
	Path   string   `json:"path"`
	Delete OpDelete `json:"delete"`
}

// OpBatch carries a set of path-scoped operations. The set must not exceed
// the backend's declared MaxBatch; oversized sets are rejected outright and
// must be pre-chunked by the caller or a higher layer.
type OpBatch struct {
	Operations []BatchOperation `json:"operations"`
}

// OpPresign carries the arguments for generating a signed URL. Only read
// presigning is supported in this release.
type OpPresign struct {
	Expiry time.Duration `json:"expiry"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsFull returns true when the range selects the whole object.
func (r Range) IsFull() bool {
	return r.Offset == 0 && r.Length == 0
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Range) String() string {
	if r.IsFull() {
		return "0-"
	}
	if r.Length <= 0 {
		return fmt.Sprintf("%d-", r.Offset)
	}
	return fmt.Sprintf("%d-%d", r.Offset, r.Offset+r.Length-1)
}
