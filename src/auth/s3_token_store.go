package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/oauth2"
)

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3TokenStore keeps the token as a JSON object in an S3 bucket.
type S3TokenStore struct {
	client s3API
	bucket string
	key    string
}

func (s *S3TokenStore) Get(ctx context.Context) (*oauth2.Token, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("S3TokenStore.Get: s3://%s/%s: %w", s.bucket, s.key, TokenNotFoundErr)
		}

		return nil, fmt.Errorf("S3TokenStore.Get: failed to get s3://%s/%s: %w", s.bucket, s.key, err)
	}

	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("S3TokenStore.Get: failed to read body: %w", err)
	}

	token, err := decodeToken(data)
	if err != nil {
		return nil, fmt.Errorf("S3TokenStore.Get: %w", err)
	}

	return token, nil
}

func (s *S3TokenStore) Put(ctx context.Context, token *oauth2.Token) error {
	data, err := encodeToken(token)
	if err != nil {
		return fmt.Errorf("S3TokenStore.Put: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("S3TokenStore.Put: failed to put s3://%s/%s: %w", s.bucket, s.key, err)
	}

	return nil
}

// NewS3TokenStore uses the default AWS credential chain.
func NewS3TokenStore(ctx context.Context, region, bucket, key string) (*S3TokenStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewS3TokenStore: failed to load aws config: %w", err)
	}

	return &S3TokenStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}
