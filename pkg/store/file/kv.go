// Package file persists store records as a single JSON document on
// disk. It trades the durability guarantees of SQLite for having no
// database at all, which suits throwaway and single-user setups.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is a string key/value substrate backed by one JSON file. The
// whole document is rewritten on every mutation via a temp file and
// rename, so a crash mid-write never leaves a torn document.
type KV struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// Open loads (creating if needed) the document at path.
func Open(path string) (*KV, error) {
	kv := &KV{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, &kv.items); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return kv, nil
}

func (k *KV) flush() error {
	data, err := json.MarshalIndent(k.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(k.path), ".devlens-*")
	if err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), k.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func (k *KV) Get(key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.items[key]
	return v, ok, nil
}

func (k *KV) Set(key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.items[key] = value
	return k.flush()
}

func (k *KV) Remove(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.items[key]; !ok {
		return nil
	}
	delete(k.items, key)
	return k.flush()
}

func (k *KV) Keys() ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	keys := make([]string, 0, len(k.items))
	for key := range k.items {
		keys = append(keys, key)
	}
	return keys, nil
}
