package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"unmark/internal/core/domain"
	"unmark/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Session is the state behind the desktop host view: an append-only list of uploads and the
// results obtained for them. At most one request is in flight at a time.
type Session struct {
	remover   port.WatermarkRemover
	inpainter port.Inpainter
	store     port.ResultStore
	maxSizeMB int

	// OnChange is called after every state change, outside the session lock.
	OnChange func()

	mu      sync.Mutex
	uploads []domain.Upload
	results []domain.Result
	message string
	zoom    float64
	running bool
}

func NewSession(remover port.WatermarkRemover, inpainter port.Inpainter, store port.ResultStore,
	maxSizeMB int) *Session {
	if maxSizeMB <= 0 {
		maxSizeMB = domain.DefaultMaxSizeMB
	}

	return &Session{
		remover:   remover,
		inpainter: inpainter,
		store:     store,
		maxSizeMB: maxSizeMB,
		zoom:      domain.MinZoom,
	}
}

// Select validates files and appends the accepted ones. The message is set to the last rejection, if any.
func (s *Session) Select(files []domain.Upload) []domain.Upload {
	var accepted []domain.Upload
	var message string

	for _, f := range files {
		if err := domain.ValidateUpload(f, s.maxSizeMB); err != nil {
			log.Info().Str("file", f.Name).Str("mime", f.MIME).Int64("size", f.Size).Err(err).
				Msg("rejected upload")
			message = domain.UserMessage(err)
			continue
		}
		accepted = append(accepted, f)
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, accepted...)
	s.message = message
	s.mu.Unlock()

	s.changed()

	return accepted
}

// RemoveAll sends every upload to the removal service, one after the other. Earlier results are
// released first. The first failure stops the batch; results obtained before it are kept.
func (s *Session) RemoveAll(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrBusy
	}

	if len(s.uploads) == 0 {
		s.mu.Unlock()
		return domain.ErrNoUploads
	}

	s.running = true
	s.message = ""
	stale := s.results
	s.results = nil
	uploads := make([]domain.Upload, len(s.uploads))
	copy(uploads, s.uploads)
	s.mu.Unlock()

	s.release(stale)
	s.changed()

	for i, u := range uploads {
		l := log.With().Int("index", i).Str("file", u.Name).Logger()
		l.Info().Msg("removing watermark")

		data, err := s.remover.Remove(ctx, u)
		if err != nil {
			l.Error().Err(err).Msg("removal failed")
			s.finish(domain.UserMessage(err))
			return fmt.Errorf("removing watermark from %s: %w", u.Name, err)
		}

		s.appendResult(i, u.Name, data)
	}

	s.finish("")
	return nil
}

// Inpaint sends upload index together with a mask to the inpainting service and appends the result.
func (s *Session) Inpaint(ctx context.Context, index int, mask []byte) (domain.Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.Result{}, domain.ErrBusy
	}

	if index < 0 || index >= len(s.uploads) {
		s.mu.Unlock()
		return domain.Result{}, domain.ErrUnknownUpload
	}

	s.running = true
	s.message = ""
	u := s.uploads[index]
	s.mu.Unlock()

	s.changed()

	log.Info().Int("index", index).Str("file", u.Name).Int("maskBytes", len(mask)).Msg("inpainting")

	data, err := s.inpainter.Inpaint(ctx, u.Data, mask)
	if err != nil {
		log.Error().Err(err).Int("index", index).Msg("inpainting failed")
		s.finish(domain.UserMessage(err))
		return domain.Result{}, fmt.Errorf("inpainting %s: %w", u.Name, err)
	}

	r := s.appendResult(index, u.Name, data)
	s.finish("")

	return r, nil
}

// Reset drops all uploads and results and releases stored files.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrBusy
	}

	stale := s.results
	s.uploads = nil
	s.results = nil
	s.message = ""
	s.zoom = domain.MinZoom
	s.mu.Unlock()

	s.release(stale)
	s.changed()

	return nil
}

// Close releases every stored result. The session must not be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	stale := s.results
	s.results = nil
	s.mu.Unlock()

	s.release(stale)
}

func (s *Session) Uploads() []domain.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *Session) Results() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out
}

// ResultData returns the image bytes of r, read back from the store unless it was kept in memory.
func (s *Session) ResultData(r domain.Result) ([]byte, error) {
	if r.Path == "" {
		if len(r.Data) == 0 {
			return nil, domain.ErrMissingImage
		}
		return r.Data, nil
	}

	data, err := s.store.Load(r.Path)
	if err != nil {
		return nil, fmt.Errorf("loading result %s: %w", r.Name, err)
	}

	return data, nil
}

func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

func (s *Session) ZoomIn() float64 {
	return s.setZoom(domain.ZoomIn)
}

func (s *Session) ZoomOut() float64 {
	return s.setZoom(domain.ZoomOut)
}

func (s *Session) setZoom(step func(float64) float64) float64 {
	s.mu.Lock()
	s.zoom = step(s.zoom)
	z := s.zoom
	s.mu.Unlock()

	s.changed()
	return z
}

func (s *Session) appendResult(index int, name string, data []byte) domain.Result {
	path, err := s.store.Save(data, ".png")
	if err != nil {
		log.Warn().Err(err).Str("file", name).Msg("could not store result, keeping it in memory only")
	}

	s.mu.Lock()
	r := domain.Result{
		Index: index,
		Name:  resultName(name, len(s.results)+1),
		Path:  path,
	}
	if path == "" {
		r.Data = data
	}
	s.results = append(s.results, r)
	s.mu.Unlock()

	s.changed()
	return r
}

func (s *Session) finish(message string) {
	s.mu.Lock()
	s.running = false
	s.message = message
	s.mu.Unlock()

	s.changed()
}

func (s *Session) release(results []domain.Result) {
	for _, r := range results {
		if r.Path != "" {
			s.store.Release(r.Path)
		}
	}
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// resultName is the suggested download name of the n-th result.
func resultName(source string, n int) string {
	if source == "" {
		return fmt.Sprintf("cleaned_%d.png", n)
	}

	base := filepath.Base(source)
	return fmt.Sprintf("cleaned_%d_%s.png", n, base[:len(base)-len(filepath.Ext(base))])
}
