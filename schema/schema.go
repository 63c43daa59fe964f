package schema

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Scheme identifies a backend family. It is fixed at build time and used
// for diagnostics and construction-time dispatch only.
type Scheme string

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	SchemaName = "unistore"
)

const (
	SchemeMemory     Scheme = "mem"
	SchemeFilesystem Scheme = "file"
	SchemeS3         Scheme = "s3"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s Scheme) String() string {
	return string(s)
}
