package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
	"gopkg.in/yaml.v3"
)

// regionTile is one non-zero tile setting in a region file. Tiles that are
// absent have settings 0.
type regionTile struct {
	X        int  `yaml:"x"`
	Y        int  `yaml:"y"`
	Level    int  `yaml:"level"`
	Settings byte `yaml:"settings"`
}

type regionFile struct {
	Tiles   []regionTile            `yaml:"tiles"`
	Objects []chunk.LandscapeObject `yaml:"objects"`
}

// RegionStore reads map regions from <dir>/<rx>_<ry>.yaml. A missing file
// is an empty region.
type RegionStore struct {
	dir string
}

func NewRegionStore(dir string) *RegionStore {
	return &RegionStore{dir: dir}
}

// Path returns the file backing region (rx, ry).
func (s *RegionStore) Path(rx, ry int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%d.yaml", rx, ry))
}

// Exists reports whether region (rx, ry) has a file.
func (s *RegionStore) Exists(rx, ry int) bool {
	_, err := os.Stat(s.Path(rx, ry))
	return err == nil
}

// LoadRegion implements chunk.RegionSource.
func (s *RegionStore) LoadRegion(rx, ry int) (*chunk.RegionData, error) {
	path := s.Path(rx, ry)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &chunk.RegionData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read region %d_%d: %w", ErrConfigLoad, rx, ry, err)
	}
	var f regionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: parse region %d_%d: %w", ErrConfigLoad, rx, ry, err)
	}

	d := &chunk.RegionData{Objects: f.Objects}
	for _, t := range f.Tiles {
		if t.Level < 0 || t.Level >= coord.Levels ||
			t.X < 0 || t.X >= coord.RegionSize ||
			t.Y < 0 || t.Y >= coord.RegionSize {
			return nil, fmt.Errorf("%w: region %d_%d: tile (%d, %d, %d) out of range",
				ErrConfigLoad, rx, ry, t.X, t.Y, t.Level)
		}
		d.Settings[t.Level][t.X][t.Y] = t.Settings
	}
	return d, nil
}
