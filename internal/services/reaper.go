package services

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"alfredoptarigan/interview-coach/internal/models"
)

// Reaper owns the transient files of one pipeline invocation and removes
// each of them exactly once.
type Reaper struct {
	mu      sync.Mutex
	files   []*models.TransientFile
	removed map[string]bool
	remove  func(string) error
	logger  log.FieldLogger
}

func NewReaper(logger log.FieldLogger) *Reaper {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Reaper{
		removed: make(map[string]bool),
		remove:  os.Remove,
		logger:  logger,
	}
}

func (r *Reaper) Track(f *models.TransientFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

func (r *Reaper) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Release deletes every tracked file not deleted yet. Failures are logged and
// never returned so they cannot mask the pipeline outcome.
func (r *Reaper) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if r.removed[f.Path] {
			continue
		}
		r.removed[f.Path] = true

		err := r.remove(f.Path)
		switch {
		case err == nil:
			r.logger.WithField("kind", f.Kind).Debug("transient file removed")
		case errors.Is(err, fs.ErrNotExist):
			r.logger.WithField("path", f.Path).Debug("transient file already gone")
		default:
			r.logger.WithError(err).WithField("path", f.Path).Error("failed to remove transient file")
		}
	}
}
