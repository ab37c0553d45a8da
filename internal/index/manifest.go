package index

import (
	"encoding/json"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"strings"
	"time"
)

// Entry is what the manifest remembers about one written file.
type Entry struct {
	Route   string    `json:"route"`
	Hash    string    `json:"hash"`
	Size    int64     `json:"size"`
	Written time.Time `json:"written"`
}

func cleanKey(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNotFound
	}
	return []byte(path), nil
}

func (s *Store) Get(path string) (Entry, error) {
	key, err := cleanKey(path)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bOutputs).Get(key)
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

func (s *Store) Put(path string, e Entry) error {
	key, err := cleanKey(path)
	if err != nil {
		return fmt.Errorf("index: put: empty path")
	}
	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("index: put %s: %w", path, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bOutputs).Put(key, val)
	})
}

// Paths lists every recorded output in key order.
func (s *Store) Paths() ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bOutputs).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

func (s *Store) Delete(paths ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bOutputs)
		for _, p := range paths {
			if err := b.Delete([]byte(p)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stale returns recorded paths missing from keep.
func (s *Store) Stale(keep map[string]struct{}) ([]string, error) {
	all, err := s.Paths()
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, p := range all {
		if _, ok := keep[p]; !ok {
			stale = append(stale, p)
		}
	}
	return stale, nil
}

// Fingerprint is the render hash of the previous build, "" before the first.
func (s *Store) Fingerprint() (string, error) {
	var fp string
	err := s.db.View(func(tx *bolt.Tx) error {
		fp = string(tx.Bucket(bMeta).Get(kFingerprint))
		return nil
	})
	return fp, err
}

func (s *Store) SetFingerprint(fp string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bMeta).Put(kFingerprint, []byte(fp))
	})
}

// IncBuilds bumps the build counter and returns the new value.
func (s *Store) IncBuilds() (uint64, error) {
	var n uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		n = getU64(b.Get(kBuilds)) + 1
		buf := make([]byte, 8)
		putU64(buf, n)
		return b.Put(kBuilds, buf)
	})
	return n, err
}
