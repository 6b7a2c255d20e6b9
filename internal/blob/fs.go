package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Filesystem stores each key as a plain file under root, so the artifacts of
// a local run sit directly in the output directory. Content type and user
// metadata live in a hidden sidecar (.<name>.meta) that List skips.
type Filesystem struct {
	root string
}

// NewFilesystem returns a store rooted at root, creating it if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: root}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// Root is the directory the store writes into.
func (s *Filesystem) Root() string { return s.root }

// sanitizeKey keeps keys relative and inside the store.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(clean, "/../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}

func (s *Filesystem) pathFor(key string) (dataPath, metaPath string, err error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	dataPath = filepath.Join(s.root, filepath.FromSlash(k))
	metaPath = filepath.Join(filepath.Dir(dataPath), "."+filepath.Base(dataPath)+".meta")
	return dataPath, metaPath, nil
}

type metaFile struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (s *Filesystem) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return Info{}, err
	}
	// stream to a temp file, then rename over the old copy
	tmp, err := os.CreateTemp(filepath.Dir(dataPath), ".tmp-*")
	if err != nil {
		return Info{}, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Info{}, err
	}
	if err := os.Rename(tmp.Name(), dataPath); err != nil {
		return Info{}, err
	}
	now := time.Now().UTC()
	mf := metaFile{ContentType: opts.ContentType, Metadata: cloneMetadata(opts.Metadata), ETag: hex.EncodeToString(h.Sum(nil)), Size: size, UpdatedAt: now}
	b, err := json.Marshal(mf)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		return Info{}, err
	}
	return s.info(key, mf), nil
}

func (s *Filesystem) info(key string, mf metaFile) Info {
	return Info{Key: key, Size: mf.Size, ContentType: mf.ContentType, ETag: mf.ETag, Metadata: cloneMetadata(mf.Metadata), LastModified: mf.UpdatedAt}
}

// readMeta falls back to file stats when the sidecar is absent (a file put
// there by hand).
func (s *Filesystem) readMeta(dataPath, metaPath string) (metaFile, error) {
	st, err := os.Stat(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return metaFile{}, ErrNotFound
	}
	if err != nil {
		return metaFile{}, err
	}
	var mf metaFile
	if b, err := os.ReadFile(metaPath); err == nil {
		if err := json.Unmarshal(b, &mf); err != nil {
			return metaFile{}, fmt.Errorf("blob meta %s: %w", metaPath, err)
		}
		return mf, nil
	}
	return metaFile{Size: st.Size(), UpdatedAt: st.ModTime().UTC()}, nil
}

func (s *Filesystem) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, nil, err
	}
	mf, err := s.readMeta(dataPath, metaPath)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(dataPath)
	if err != nil {
		return Info{}, nil, err
	}
	return s.info(key, mf), f, nil
}

func (s *Filesystem) Head(ctx context.Context, key string) (Info, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return Info{}, err
	}
	mf, err := s.readMeta(dataPath, metaPath)
	if err != nil {
		return Info{}, err
	}
	return s.info(key, mf), nil
}

func (s *Filesystem) Delete(ctx context.Context, key string) (bool, error) {
	dataPath, metaPath, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	err = os.Remove(dataPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_ = os.Remove(metaPath)
	return true, nil
}
