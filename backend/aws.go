package backend

import (
	"context"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	unistore "github.com/mutablelogic/go-unistore"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// LoadAWSConfig builds an AWS SDK v2 configuration for an s3:// backend,
// starting from the default credential chain. Options applied: WithRegion,
// WithEndpoint, WithStaticCredentials, WithAnonymous and WithTracer (which
// injects OTel middleware so each S3 API call produces a child span).
// Pass the result to New via WithAWSConfig.
func LoadAWSConfig(ctx context.Context, opts ...Opt) (aws.Config, error) {
	o, err := apply(nil, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	// Load the default configuration
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, unistore.Errf(unistore.KindConfigInvalid, "failed to load AWS configuration").WithCause(err)
	}

	// Apply overrides
	if o.region != "" {
		cfg.Region = o.region
	}
	if o.endpoint != "" {
		cfg.BaseEndpoint = aws.String(o.endpoint)
	}
	if o.accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, "")
	}
	if o.anonymous {
		cfg.Credentials = aws.AnonymousCredentials{}
	}

	// Inject SDK middleware when tracing is enabled
	if o.tracer != nil {
		otelaws.AppendMiddlewares(&cfg.APIOptions)
	}

	// Return success
	return cfg, nil
}
