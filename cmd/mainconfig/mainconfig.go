// Package mainconfig holds AWS SDK setup shared by binaries that talk to
// DynamoDB, so LocalStack and production use the same wiring.
package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// AWSOptions carries the pieces of app config the SDK needs. Credentials
// are optional; when absent the SDK's default chain applies.
type AWSOptions struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	EndpointOverride string
}

// LoadAWSConfig resolves an aws.Config from the options. A non-empty
// EndpointOverride points the DynamoDB client at LocalStack.
func LoadAWSConfig(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if strings.TrimSpace(opts.AccessKeyID) != "" && strings.TrimSpace(opts.SecretAccessKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}
	if opts.EndpointOverride != "" {
		cfg.EndpointResolverWithOptions = dynamoEndpointResolver(opts.EndpointOverride, opts.Region)
	}
	return cfg, nil
}

func dynamoEndpointResolver(endpoint, region string) aws.EndpointResolverWithOptionsFunc {
	return func(service, _ string, _ ...interface{}) (aws.Endpoint, error) {
		if service != dynamodb.ServiceID {
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
		return aws.Endpoint{
			URL:           endpoint,
			PartitionID:   "aws",
			SigningRegion: region,
		}, nil
	}
}
