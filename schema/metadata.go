package schema

import (
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// EntryMode distinguishes file-like keys from directory-like keys.
type EntryMode uint8

// Metadata describes one stored entry. It is an immutable value produced
// by parsing a backend response.
type Metadata struct {
	Mode          EntryMode  `json:"mode"`
	ContentLength int64      `json:"size,omitempty"`
	ContentType   string     `json:"type,omitempty"`
	ETag          string     `json:"etag,omitempty"`
	LastModified  time.Time  `json:"modtime,omitzero"`
	Meta          ObjectMeta `json:"meta,omitempty"`
}

// ObjectMeta is a string key-value map for user-defined object metadata.
// Keys should be lowercase for S3 compatibility, as S3 normalizes all
// metadata keys to lowercase.
type ObjectMeta map[string]string

// Entry is one listing result: a path and its metadata. The metadata may
// be partial when the backend listing does not carry full attributes.
type Entry struct {
	Path     string   `json:"path"`
	Metadata Metadata `json:"metadata"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	EntryModeUnknown EntryMode = iota
	EntryModeFile
	EntryModeDir
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (m EntryMode) IsFile() bool {
	return m == EntryModeFile
}

func (m EntryMode) IsDir() bool {
	return m == EntryModeDir
}

func (m Metadata) IsDir() bool {
	return m.Mode.IsDir()
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m EntryMode) String() string {
	switch m {
	case EntryModeFile:
		return "file"
	case EntryModeDir:
		return "dir"
	default:
		return "unknown"
	}
}
