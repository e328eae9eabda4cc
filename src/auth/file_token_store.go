package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Get(ctx context.Context) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("FileTokenStore.Get: %s: %w", s.Path, TokenNotFoundErr)
		}

		return nil, fmt.Errorf("FileTokenStore.Get: failed to read %s: %w", s.Path, err)
	}

	token, err := decodeToken(data)
	if err != nil {
		return nil, fmt.Errorf("FileTokenStore.Get: %s: %w", s.Path, err)
	}

	return token, nil
}

func (s *FileTokenStore) Put(ctx context.Context, token *oauth2.Token) error {
	data, err := encodeToken(token)
	if err != nil {
		return fmt.Errorf("FileTokenStore.Put: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("FileTokenStore.Put: failed to create directory: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("FileTokenStore.Put: failed to write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("FileTokenStore.Put: failed to rename %s: %w", tmp, err)
	}

	return nil
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}
