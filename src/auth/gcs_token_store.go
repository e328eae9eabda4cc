package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/storage/v1"
)

// GCSTokenStore keeps the token as a JSON object in a Google Cloud Storage bucket.
type GCSTokenStore struct {
	service *storage.Service
	bucket  string
	object  string
}

func (s *GCSTokenStore) Get(ctx context.Context) (*oauth2.Token, error) {
	res, err := s.service.Objects.Get(s.bucket, s.object).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("GCSTokenStore.Get: gs://%s/%s: %w", s.bucket, s.object, TokenNotFoundErr)
		}

		return nil, fmt.Errorf("GCSTokenStore.Get: failed to download gs://%s/%s: %w", s.bucket, s.object, err)
	}

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("GCSTokenStore.Get: failed to read body: %w", err)
	}

	token, err := decodeToken(data)
	if err != nil {
		return nil, fmt.Errorf("GCSTokenStore.Get: %w", err)
	}

	return token, nil
}

func (s *GCSTokenStore) Put(ctx context.Context, token *oauth2.Token) error {
	data, err := encodeToken(token)
	if err != nil {
		return fmt.Errorf("GCSTokenStore.Put: %w", err)
	}

	obj := &storage.Object{
		Name:        s.object,
		ContentType: "application/json",
	}

	if _, err := s.service.Objects.Insert(s.bucket, obj).Media(bytes.NewReader(data)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("GCSTokenStore.Put: failed to upload gs://%s/%s: %w", s.bucket, s.object, err)
	}

	return nil
}

func NewGCSTokenStore(ctx context.Context, googleSecurityKeyJsonBase64, bucket, object string) (*GCSTokenStore, error) {
	// get bytes from base64 encoded google service accounts key
	credBytes, err := base64.StdEncoding.DecodeString(googleSecurityKeyJsonBase64)
	if err != nil {
		return nil, fmt.Errorf("NewGCSTokenStore: failed to base64 decode googleSecurityKeyJsonBase64: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credBytes, storage.DevstorageReadWriteScope)
	if err != nil {
		return nil, fmt.Errorf("NewGCSTokenStore: failed to get config from json: %w", err)
	}

	return NewGCSTokenStoreWithOptions(ctx, bucket, object, option.WithHTTPClient(config.Client(ctx)))
}

func NewGCSTokenStoreWithOptions(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*GCSTokenStore, error) {
	service, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSTokenStore: failed to create storage service: %w", err)
	}

	return &GCSTokenStore{
		service: service,
		bucket:  bucket,
		object:  object,
	}, nil
}
