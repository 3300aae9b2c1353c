// Package credsadapter bridges the minio-go credential provider chain to
// the plain creds.Func shape the rest of the module uses, so
// callers can resolve AWS credentials from the usual sources (static
// keys, environment variables, shared credential files, IAM instance
// roles) without this module importing a full S3 client SDK.
package credsadapter

import (
	"context"

	"github.com/candrsn/sqlite-s3-query/internal/creds"
	"github.com/candrsn/sqlite-s3-query/internal/errs"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Chain builds a creds.Func backed by minio-go's provider chain, tried
// in this order: AWS environment variables, the static keys passed in
// directly, Minio's own environment variables, the shared
// ~/.aws/credentials file, the Minio client config file, and finally
// the EC2/ECS IAM instance role.
func Chain(region, accessKeyID, secretAccessKey, sessionToken string) creds.Func {
	providers := []credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.Static{Value: credentials.Value{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    sessionToken,
		}},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.FileMinioClient{},
		&credentials.IAM{},
	}
	chain := credentials.NewChainCredentials(providers)

	return func(ctx context.Context) (creds.Credentials, error) {
		value, err := chain.Get()
		if err != nil {
			return creds.Credentials{}, errs.CredentialError("resolving credentials from provider chain", err)
		}
		return creds.Credentials{
			Region:          region,
			AccessKeyID:     value.AccessKeyID,
			SecretAccessKey: value.SecretAccessKey,
			SessionToken:    value.SessionToken,
		}, nil
	}
}
