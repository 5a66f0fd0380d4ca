package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
)

// OverlayService serves the static overlay assets the client composer stamps
// onto captures. Assets are PNG files in a directory, read once and cached
// for the process lifetime.
type OverlayService struct {
	dir  string
	log  *zap.Logger
	once sync.Once

	overlays []domain.Overlay
	loadErr  error
}

// NewOverlayService constructs the overlay service over an asset directory.
func NewOverlayService(dir string, log *zap.Logger) *OverlayService {
	return &OverlayService{dir: dir, log: log}
}

// List returns every overlay as a slug plus a ready-to-render data URL.
func (s *OverlayService) List(_ context.Context) ([]domain.Overlay, error) {
	s.once.Do(s.load)
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.overlays, nil
}

func (s *OverlayService) load() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.loadErr = fmt.Errorf("read overlay directory: %w", err)
		return
	}

	overlays := make([]domain.Overlay, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.loadErr = fmt.Errorf("read overlay %s: %w", entry.Name(), err)
			return
		}

		overlays = append(overlays, domain.Overlay{
			Slug:    strings.TrimSuffix(entry.Name(), ".png"),
			Content: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		})
	}

	sort.Slice(overlays, func(i, j int) bool { return overlays[i].Slug < overlays[j].Slug })

	s.log.Info("overlay assets loaded", zap.Int("count", len(overlays)), zap.String("dir", s.dir))
	s.overlays = overlays
}
