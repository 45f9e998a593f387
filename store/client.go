package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/satchel/internal/awsconf"
)

// AWSConfig selects how the DynamoDB client authenticates and where it
// connects. The zero value uses ambient credentials and region (env vars,
// shared config, instance roles).
type AWSConfig struct {
	// Region is the AWS region. Empty means ambient resolution.
	Region string

	// AccessKeyID and SecretAccessKey select static credentials when both
	// are set; otherwise the ambient credential chain is used.
	// SessionToken is optional alongside them.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Endpoint overrides the DynamoDB endpoint, e.g. "http://localhost:8000"
	// for DynamoDB Local.
	Endpoint string
}

// NewClient constructs a DynamoDB client from explicit configuration. It
// never mutates process-wide SDK state; each call resolves its own
// aws.Config.
func NewClient(ctx context.Context, cfg AWSConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconf.Load(ctx, awsconf.Settings{
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		SessionToken:    cfg.SessionToken,
	})
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var opts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *dynamodb.Options) {
			o.BaseEndpoint = &cfg.Endpoint
		})
	}

	return dynamodb.NewFromConfig(awsCfg, opts...), nil
}
