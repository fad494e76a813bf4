package file

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// Download returns the byte content of a file on a provided URL.
func Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
		log.Error().Err(err).Send()
		return nil, err
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	return buf, nil
}

// Fetcher downloads chat attachments over plain HTTP.
type Fetcher struct{}

func (Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return Download(ctx, url)
}

// SaveTemp saves bytes to a temp location under dir and returns the path.
func SaveTemp(dir string, data []byte, extension string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	log.Debug().Int("bytes", len(data)).Str("extension", extension).Msg("creating temp file")

	path := filepath.Join(dir, id.String()+extension)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		err = fmt.Errorf("error writing temp file %w", err)
		log.Error().Err(err).Send()
		return "", err
	}

	log.Debug().Str("path", path).Msg("created file")

	return path, nil
}

// GetTemp retrieves a temporarily stored file by its path, as returned from SaveTemp().
func GetTemp(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("error reading temp file %w", err)
		log.Error().Err(err).Send()
		return nil, err
	}

	return buf, nil
}

// RemoveTemp removes a specified temporary file at the given path and logs success or failure.
func RemoveTemp(path string) {
	err := os.Remove(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
	log.Debug().Str("path", path).Msg("cleaned up temp file")
}

// Store keeps result images in temp files and remembers every live one so they can be released on teardown.
type Store struct {
	dir  string
	mu   sync.Mutex
	live map[string]struct{}
}

// NewStore creates a store writing into dir, or the system temp dir when dir is empty.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("error creating result dir %w", err)
	}

	return &Store{dir: dir, live: make(map[string]struct{})}, nil
}

func (s *Store) Save(data []byte, extension string) (string, error) {
	path, err := SaveTemp(s.dir, data, extension)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.live[path] = struct{}{}
	s.mu.Unlock()

	return path, nil
}

// Load reads back a file saved by this store and not yet released.
func (s *Store) Load(path string) ([]byte, error) {
	s.mu.Lock()
	_, ok := s.live[path]
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("result file %s is not held by the store", path)
	}

	return GetTemp(path)
}

func (s *Store) Release(path string) {
	s.mu.Lock()
	_, ok := s.live[path]
	delete(s.live, path)
	s.mu.Unlock()

	if !ok {
		log.Debug().Str("path", path).Msg("release of unknown result file")
		return
	}

	RemoveTemp(path)
}

// Live returns how many stored files have not been released yet.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases every file still held by the store.
func (s *Store) Close() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.live))
	for p := range s.live {
		paths = append(paths, p)
	}
	s.live = make(map[string]struct{})
	s.mu.Unlock()

	for _, p := range paths {
		RemoveTemp(p)
	}
}
