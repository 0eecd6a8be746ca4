// Package s3 mirrors the local file tree to an Amazon S3 or S3-compatible
// bucket (MinIO, Wasabi, DigitalOcean Spaces).
//
// Mirror implements storage.Replica: every saved file is uploaded, every
// created directory gets a "dir/" marker object, and deletes remove the object
// or every object under the directory prefix. The local tree stays the source
// of truth; mirror failures are logged by the caller and never fail a request.
//
// Basic usage:
//
//	cfg := s3.Config{
//		Bucket: "my-cdn-mirror",
//		Region: "eu-central-1",
//		Prefix: "files",
//	}
//	mirror, err := s3.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := storage.NewLocal("/data", storage.WithReplica(mirror))
//
// Static credentials are optional. Without them the default AWS credential
// chain is used (environment, shared config, IAM role).
//
// For S3-compatible services set Endpoint and usually ForcePathStyle:
//
//	cfg := s3.Config{
//		Bucket:         "cdn",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true,
//	}
//
// Tests inject a fake client with WithClient and a paginator with
// WithPaginatorFactory.
package s3
