package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/driftfield/internal/export"
)

var ErrUnknownFormat = errors.New("capture: unknown format")

// Store keeps captures under baseDir, one directory per capture holding the
// image and a metadata.json.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string             `json:"id"`
	Format    string             `json:"format"`
	File      string             `json:"file"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset,omitempty"`
	Seed      uint64             `json:"seed"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Save writes frames in meta.Format ("png" keeps the last frame, "gif" all
// of them) and records the capture. It returns the capture ID.
func (s *Store) Save(meta Metadata, frames []image.Image, delay int) (string, error) {
	if len(frames) == 0 {
		return "", export.ErrNoFrames
	}
	if meta.Format != "png" && meta.Format != "gif" {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, meta.Format)
	}

	now := time.Now()
	meta.Timestamp = now
	meta.File = "capture." + meta.Format
	meta.Frames = len(frames)

	dir, err := s.claim(&meta, now)
	if err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, meta.File))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if meta.Format == "png" {
		meta.Frames = 1
		err = export.WritePNG(f, frames[len(frames)-1])
	} else {
		err = export.WriteGIF(f, frames, delay)
	}
	if err != nil {
		return "", err
	}

	if err := writeMeta(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// claim creates a fresh directory for meta, suffixing the ID when another
// capture already took the same millisecond.
func (s *Store) claim(meta *Metadata, now time.Time) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	base := fmt.Sprintf("%s_%d", meta.Format, now.UnixMilli())
	meta.ID = base
	for seq := 1; ; seq++ {
		dir := filepath.Join(s.baseDir, meta.ID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		meta.ID = fmt.Sprintf("%s_%d", base, seq)
	}
}

func writeMeta(path string, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns every readable capture, oldest first.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	caps := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		caps = append(caps, *meta)
	}
	sort.Slice(caps, func(i, j int) bool {
		return caps[i].Timestamp.Before(caps[j].Timestamp)
	})
	return caps, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Path returns the image file of a capture.
func (s *Store) Path(meta *Metadata) string {
	return filepath.Join(s.baseDir, meta.ID, meta.File)
}
