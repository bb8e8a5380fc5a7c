package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/wikisnp/internal/shared/paths"
)

var (
	ErrMiss    = errors.New("cache miss")
	ErrCorrupt = errors.New("corrupt cache entry")
)

// Entry is one cached response.
type Entry struct {
	URL          string        `json:"url"`
	Status       int           `json:"status"`
	ContentType  string        `json:"content_type,omitempty"`
	ETag         string        `json:"etag,omitempty"`
	LastModified string        `json:"last_modified,omitempty"`
	StoredAt     time.Time     `json:"stored_at"`
	MaxAge       time.Duration `json:"max_age"`
	Body         []byte        `json:"-"`
}

// Fresh reports whether the entry may be served without contacting the origin.
func (e *Entry) Fresh(now time.Time) bool {
	return e.MaxAge > 0 && now.Sub(e.StoredAt) < e.MaxAge
}

// Validators reports whether a conditional request can revalidate the entry.
func (e *Entry) Validators() bool {
	return e.ETag != "" || e.LastModified != ""
}

// Store is a directory of cache entries. It is safe for concurrent use.
type Store struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewStore opens (creating if needed) a cache rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Store{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// Dir returns the cache root
func (s *Store) Dir() string {
	return s.dir
}

// Key returns the file stem used for url
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get loads the entry for url. It returns ErrMiss when nothing is stored.
func (s *Store) Get(url string) (*Entry, error) {
	meta, err := os.ReadFile(s.metaPath(url))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cache metadata: %w", err)
	}

	var entry Entry
	if err := sonic.Unmarshal(meta, &entry); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrCorrupt, err)
	}
	if entry.URL != url {
		return nil, fmt.Errorf("%w: key collision for %s", ErrCorrupt, url)
	}

	compressed, err := os.ReadFile(s.bodyPath(url))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: body missing", ErrCorrupt)
		}
		return nil, fmt.Errorf("reading cache body: %w", err)
	}

	entry.Body, err = s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrCorrupt, err)
	}
	return &entry, nil
}

// Put stores entry, replacing any previous entry for the same URL.
// The body is written before the metadata, so readers never see metadata
// pointing at a missing body.
func (s *Store) Put(entry *Entry) error {
	meta, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache metadata: %w", err)
	}

	body := s.encoder.EncodeAll(entry.Body, nil)
	if err := paths.WriteFileAtomic(s.bodyPath(entry.URL), body, 0o644); err != nil {
		return fmt.Errorf("writing cache body: %w", err)
	}
	if err := paths.WriteFileAtomic(s.metaPath(entry.URL), meta, 0o644); err != nil {
		return fmt.Errorf("writing cache metadata: %w", err)
	}
	return nil
}

// Delete removes the entry for url. Deleting a missing entry is not an error.
func (s *Store) Delete(url string) error {
	for _, path := range []string{s.metaPath(url), s.bodyPath(url)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting cache entry: %w", err)
		}
	}
	return nil
}

// Close releases the compression workers
func (s *Store) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}

func (s *Store) metaPath(url string) string {
	return filepath.Join(s.dir, Key(url)+".json")
}

func (s *Store) bodyPath(url string) string {
	return filepath.Join(s.dir, Key(url)+".zst")
}

// MaxAge extracts the freshness lifetime from a Cache-Control header value.
// ok is false when the response must not be stored at all.
func MaxAge(cacheControl string) (maxAge time.Duration, ok bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		name, value, _ := strings.Cut(strings.TrimSpace(directive), "=")
		switch strings.ToLower(name) {
		case "no-store":
			return 0, false
		case "no-cache":
			return 0, true
		case "max-age":
			seconds, err := strconv.Atoi(strings.Trim(value, `"`))
			if err == nil && seconds > 0 {
				maxAge = time.Duration(seconds) * time.Second
			}
		}
	}
	return maxAge, true
}
