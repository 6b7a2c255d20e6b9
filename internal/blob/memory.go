package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"
	"time"
)

type memObject struct {
	data []byte
	info Info
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	objs map[string]memObject
}

func NewMemory() *Memory { return &Memory{objs: map[string]memObject{}} }

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}
	sum := sha256.Sum256(data)
	info := Info{
		Key: k, Size: int64(len(data)), ContentType: opts.ContentType,
		ETag: hex.EncodeToString(sum[:]), Metadata: cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	m.mu.Lock()
	m.objs[k] = memObject{data: data, info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *Memory) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	m.mu.RLock()
	o, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return Info{}, nil, ErrNotFound
	}
	return o.info, io.NopCloser(bytes.NewReader(o.data)), nil
}

func (m *Memory) Head(ctx context.Context, key string) (Info, error) {
	m.mu.RLock()
	o, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return Info{}, ErrNotFound
	}
	return o.info, nil
}

func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objs[key]
	delete(m.objs, key)
	return ok, nil
}
