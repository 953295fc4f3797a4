package directory

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:embed seed.yaml
var seedYAML []byte

// Embedded returns the directory compiled into the binary.
func Embedded() (*Directory, error) {
	return Decode(seedYAML, FormatYAML)
}

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader resolves a directory source: "" is the embedded seed,
// s3://bucket/key is fetched from S3, anything else is a local path.
type Loader struct {
	Region   string
	Endpoint string
	// S3 overrides the client built from Region and Endpoint.
	S3 ObjectGetter
}

func (l *Loader) Load(ctx context.Context, source string) (*Directory, error) {
	switch {
	case source == "":
		return Embedded()
	case strings.HasPrefix(source, "s3://"):
		bucket, key, err := parseS3URL(source)
		if err != nil {
			return nil, err
		}
		data, err := l.fetchS3(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return Decode(data, FormatFor(key))
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read directory file: %w", err)
		}
		return Decode(data, FormatFor(source))
	}
}

func parseS3URL(u string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(u, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 source %q: want s3://bucket/key", u)
	}
	return bucket, key, nil
}

// NewS3Client builds an S3 client. A non-empty endpoint switches to
// path-style addressing for MinIO and similar stores.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(cfg, s3opts...), nil
}

func (l *Loader) fetchS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if l.S3 == nil {
		client, err := NewS3Client(ctx, l.Region, l.Endpoint)
		if err != nil {
			return nil, err
		}
		l.S3 = client
	}
	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return data, nil
}
