package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// 1キー1ファイルでディレクトリに保存する。
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage dir %s", dir)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read key %q", key)
	}
	return string(b), true, nil
}

// 一時ファイルに書いてからrenameで置き換える
func (s *FileStorage) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write key %q", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close key %q", key)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return errors.Wrapf(err, "replace key %q", key)
	}
	return nil
}

// キーはファイル名に使えるようエスケープする（"cart:<uuid>" など）
func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+".json")
}
