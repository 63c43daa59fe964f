package backend

import (
	"context"
	"errors"
	"net/url"
	"strings"

	// Packages
	unistore "github.com/mutablelogic/go-unistore"
	schema "github.com/mutablelogic/go-unistore/schema"
	blob "gocloud.dev/blob"
	s3blob "gocloud.dev/blob/s3blob"
	gcerrors "gocloud.dev/gcerrors"

	// Drivers
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
	_ "gocloud.dev/blob/s3blob"   // s3:// URLs
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type blobbackend struct {
	*opt
	info   schema.AccessorInfo
	bucket *blob.Bucket
	prefix string // key prefix within the bucket (empty for file://)
}

var _ unistore.Accessor = (*blobbackend)(nil)
var _ unistore.Closer = (*blobbackend)(nil)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// defaultMaxBatch bounds a single batch call, matching the S3
	// DeleteObjects per-request limit.
	defaultMaxBatch = 1000

	// pageSize bounds one pager batch.
	pageSize = 200
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a terminal accessor over a Go CDK bucket.
// Supported URL schemes: mem://, file://, s3://
// Examples:
//   - "mem://mybucket"
//   - "file://name/path/to/directory"
//   - "s3://my-bucket?region=us-east-1"
//
// For S3 URLs, you can optionally provide an aws.Config via WithAWSConfig()
// for full control over AWS SDK configuration.
func New(ctx context.Context, u string, opts ...Opt) (*blobbackend, error) {
	self := new(blobbackend)

	// Set the options
	if url, err := url.Parse(u); err != nil {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "invalid backend url %q", u).WithCause(err)
	} else if opt, err := apply(url, opts...); err != nil {
		return nil, err
	} else {
		self.opt = opt
	}

	// Validate the scheme and assemble the static descriptor
	scheme := schema.Scheme(self.url.Scheme)
	switch scheme {
	case schema.SchemeMemory, schema.SchemeFilesystem, schema.SchemeS3:
		// Supported
	default:
		return nil, unistore.Errf(unistore.KindConfigInvalid, "unsupported scheme %q", self.url.Scheme)
	}
	if self.url.Host == "" {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "backend url %q has no name", u)
	}
	self.info = schema.AccessorInfo{
		Scheme:   scheme,
		Name:     self.url.Host,
		Root:     self.url.Path,
		Caps:     capsForScheme(scheme),
		MaxBatch: self.maxBatch(),
	}

	// The URL path is a key prefix within the bucket, except for file://
	// where it is the bucket root directory on disk.
	if scheme != schema.SchemeFilesystem {
		self.prefix = strings.Trim(self.url.Path, "/")
		if self.prefix != "" {
			self.prefix += "/"
		}
	}

	// Open the bucket
	var bucket *blob.Bucket
	var err error

	if scheme == schema.SchemeS3 && self.awsConfig != nil {
		// Use the provided AWS config to open the S3 bucket directly
		client := s3blob.Dial(*self.awsConfig)
		bucket, err = s3blob.OpenBucket(ctx, client, self.url.Host, nil)
	} else if scheme == schema.SchemeFilesystem {
		// For file:// the path is the bucket root dir - open using just the path
		openURL := &url.URL{Scheme: "file", Path: self.url.Path, RawQuery: self.url.RawQuery}
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	} else {
		// For s3, mem: open at root (strip path) to avoid PrefixedBucket
		openURL := *self.url
		openURL.Path = ""
		openURL.RawPath = ""
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	}

	if err != nil {
		return nil, unistore.Errf(unistore.KindConfigInvalid, "failed to open bucket %q", self.url.Host).WithCause(err)
	}
	self.bucket = bucket

	// Return success
	return self, nil
}

// Close the backend
func (b *blobbackend) Close() error {
	var result error
	if b.bucket != nil {
		result = errors.Join(result, b.bucket.Close())
		b.bucket = nil
	}

	// Return any errors
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Info returns the static descriptor for the backend
func (b *blobbackend) Info() schema.AccessorInfo {
	return b.info
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// key maps a normalized path onto a bucket key
func (b *blobbackend) key(path string) string {
	return b.prefix + strings.TrimPrefix(path, "/")
}

// attrsToMetadata converts bucket attributes into entry metadata
func (b *blobbackend) attrsToMetadata(path string, attrs *blob.Attributes) schema.Metadata {
	mode := schema.EntryModeFile
	if strings.HasSuffix(path, "/") {
		mode = schema.EntryModeDir
	}
	meta := schema.Metadata{
		Mode:          mode,
		ContentLength: attrs.Size,
		ContentType:   attrs.ContentType,
		LastModified:  attrs.ModTime,
	}
	if attrs.ETag != "" {
		meta.ETag = attrs.ETag
	}
	if len(attrs.Metadata) > 0 {
		meta.Meta = attrs.Metadata
	}
	return meta
}

// capsForScheme returns the capability set for a backend family
func capsForScheme(scheme schema.Scheme) schema.Capability {
	caps := schema.CapCreateDir | schema.CapRead | schema.CapWrite | schema.CapStat |
		schema.CapDelete | schema.CapList | schema.CapScan | schema.CapCopy |
		schema.CapBatch | schema.CapStreamRead
	if scheme == schema.SchemeS3 {
		caps = caps.With(schema.CapPresign)
	}
	return caps
}

// blobErr translates a go-cloud blob error into a structured error with
// the narrowest applicable kind. Errors which already carry a kind pass
// through untouched.
func blobErr(err error, path string) error {
	if err == nil {
		return nil
	}
	var uerr *unistore.Error
	if errors.As(err, &uerr) {
		return err
	}
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return unistore.Errf(unistore.KindNotFound, "object %q not found", path).WithCause(err)
	case gcerrors.PermissionDenied:
		return unistore.Errf(unistore.KindPermissionDenied, "permission denied for %q", path).WithCause(err)
	case gcerrors.InvalidArgument:
		return unistore.Errf(unistore.KindInvalidInput, "invalid argument for %q", path).WithCause(err)
	case gcerrors.FailedPrecondition:
		return unistore.Errf(unistore.KindAlreadyExists, "precondition failed for %q", path).WithCause(err)
	case gcerrors.ResourceExhausted:
		return unistore.Errf(unistore.KindRateLimited, "rate limited for %q", path).WithCause(err)
	case gcerrors.Unimplemented:
		return unistore.Errf(unistore.KindUnsupported, "not supported for %q", path).WithCause(err)
	case gcerrors.DeadlineExceeded, gcerrors.Canceled:
		return unistore.Errf(unistore.KindIO, "transport failure for %q", path).WithCause(err)
	default:
		return unistore.Errf(unistore.KindUnexpected, "blob operation failed for %q", path).WithCause(err)
	}
}
