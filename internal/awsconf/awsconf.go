// Package awsconf builds AWS SDK configurations from explicit settings.
package awsconf

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Settings are the explicit inputs for an aws.Config. Empty fields fall back
// to the ambient environment (env vars, shared config, instance roles); no
// process-global SDK state is touched.
type Settings struct {
	// Region is the AWS region. Empty means ambient resolution.
	Region string

	// AccessKeyID and SecretAccessKey select static credentials when both
	// are set. SessionToken is optional alongside them.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Load resolves an aws.Config from the settings.
func Load(ctx context.Context, s Settings) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, s.SessionToken),
		))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}
