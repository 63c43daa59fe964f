package backend

import (
	"net/url"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	unistore "github.com/mutablelogic/go-unistore"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url       *url.URL
	awsConfig *aws.Config
	endpoint  string       // raw endpoint URL set via WithEndpoint
	region    string       // AWS region set via WithRegion
	accessKey string       // static credentials set via WithStaticCredentials
	secretKey string       //
	anonymous bool         // forces anonymous credentials
	tracer    trace.Tracer // optional OTel tracer; when set, AWS SDK middleware is injected
	batch     int          // maximum batch size override
}

type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(url *url.URL, opts ...Opt) (*opt, error) {
	// Apply options
	o := opt{url: url}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets the S3 endpoint for S3-compatible services.
// For http:// endpoints, HTTPS is automatically disabled.
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		// Set endpoint parameter
		if endpoint, err := url.Parse(endpoint); err != nil {
			return unistore.Errf(unistore.KindConfigInvalid, "invalid endpoint").WithCause(err)
		} else if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
			return unistore.Errf(unistore.KindConfigInvalid, "endpoint must be http:// or https://, got %s://", endpoint.Scheme)
		} else {
			o.endpoint = endpoint.String()
			o.set("endpoint", endpoint.String())
			o.set("s3ForcePathStyle", "true") // Always set s3ForcePathStyle=true for custom endpoints
			if endpoint.Scheme == "http" {
				o.set("disable_https", "true")
			}
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Opt {
	return func(o *opt) error {
		o.region = region
		o.set("region", region)
		return nil
	}
}

// WithStaticCredentials sets a static AWS access key pair.
func WithStaticCredentials(accessKey, secretKey string) Opt {
	return func(o *opt) error {
		if accessKey == "" || secretKey == "" {
			return unistore.Errf(unistore.KindConfigInvalid, "static credentials require both access key and secret key")
		}
		o.accessKey = accessKey
		o.secretKey = secretKey
		return nil
	}
}

// WithAnonymous forces use of anonymous credentials.
// Use this for S3-compatible services that don't require authentication.
func WithAnonymous() Opt {
	return func(o *opt) error {
		o.anonymous = true
		o.set("anonymous", "true")
		return nil
	}
}

// WithCreateDir sets create_dir=true for file:// URLs to create the
// directory if it doesn't exist
func WithCreateDir() Opt {
	return func(o *opt) error {
		o.set("create_dir", "true")
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer for the backend.
// When set on an s3:// backend built through LoadAWSConfig, AWS SDK
// middleware is injected so each S3 API call produces a child span. When
// not set no SDK middleware is added.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opt) error {
		o.tracer = tracer
		return nil
	}
}

// WithAWSConfig provides an AWS SDK v2 Config directly.
// When provided for s3:// URLs, this config is used instead of the
// URL-based configuration. This allows full control over AWS configuration
// including custom credentials providers, HTTP clients and retry settings.
func WithAWSConfig(cfg aws.Config) Opt {
	return func(o *opt) error {
		o.awsConfig = &cfg
		return nil
	}
}

// WithMaxBatch overrides the maximum number of operations accepted by a
// single batch call.
func WithMaxBatch(n int) Opt {
	return func(o *opt) error {
		if n < 1 {
			return unistore.Errf(unistore.KindConfigInvalid, "max batch size must be positive, got %d", n)
		}
		o.batch = n
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (o *opt) maxBatch() int {
	if o.batch > 0 {
		return o.batch
	}
	return defaultMaxBatch
}

func (o *opt) set(key, value string) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	o.url.RawQuery = q.Encode()
}
