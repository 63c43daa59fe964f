package schema

import (
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Capability is a bitset over the operations a backend supports, plus
// behavioral hints. Callers check the bitset before dispatch; invoking an
// absent verb anyway returns an Unsupported error.
type Capability uint32

// AccessorInfo describes a backend instance. It is constructed once at
// build time, copied by value through the layer chain, and never mutated
// in place.
type AccessorInfo struct {
	Scheme   Scheme     `json:"scheme"`
	Name     string     `json:"name"`
	Root     string     `json:"root,omitempty"`
	Caps     Capability `json:"caps"`
	MaxBatch int        `json:"max_batch,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	CapCreateDir Capability = 1 << iota
	CapRead
	CapWrite
	CapWriteAppend
	CapStat
	CapDelete
	CapList
	CapScan
	CapCopy
	CapBatch
	CapPresign

	// CapStreamRead hints that reads are delivered lazily rather than
	// buffered in full by the backend.
	CapStreamRead
)

var capNames = map[Capability]string{
	CapCreateDir:   "create_dir",
	CapRead:        "read",
	CapWrite:       "write",
	CapWriteAppend: "write_append",
	CapStat:        "stat",
	CapDelete:      "delete",
	CapList:        "list",
	CapScan:        "scan",
	CapCopy:        "copy",
	CapBatch:       "batch",
	CapPresign:     "presign",
	CapStreamRead:  "stream_read",
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Has returns true when every capability in c is present.
func (caps Capability) Has(c Capability) bool {
	return caps&c == c
}

// With returns a copy of the capability set with c added.
func (caps Capability) With(c Capability) Capability {
	return caps | c
}

// Without returns a copy of the capability set with c removed.
func (caps Capability) Without(c Capability) Capability {
	return caps &^ c
}

// WithCaps returns a copy of the info with the given capabilities added.
// Layers which extend a backend declare the extension here rather than by
// mutating the inner info.
func (info AccessorInfo) WithCaps(c Capability) AccessorInfo {
	info.Caps = info.Caps.With(c)
	return info
}

// WithoutCaps returns a copy of the info with the given capabilities
// removed. Only restriction layers (for example a read-only layer) may
// hide capabilities the inner accessor reports.
func (info AccessorInfo) WithoutCaps(c Capability) AccessorInfo {
	info.Caps = info.Caps.Without(c)
	return info
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (caps Capability) String() string {
	parts := make([]string, 0, len(capNames))
	for c := CapCreateDir; c <= CapStreamRead; c <<= 1 {
		if caps.Has(c) {
			parts = append(parts, capNames[c])
		}
	}
	return strings.Join(parts, "|")
}
