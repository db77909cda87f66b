package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/lyric2video/internal/compositor"
	"github.com/ivlev/lyric2video/internal/config"
	"github.com/ivlev/lyric2video/internal/timeline"
)

const Version = "1.0"

// Project is everything needed to render one song.
type Project struct {
	Version    string             `yaml:"version"`
	Title      string             `yaml:"title"`
	Artist     string             `yaml:"artist"`
	Audio      string             `yaml:"audio,omitempty"`      // Relative to the project file
	Background string             `yaml:"background,omitempty"` // Image or PDF, relative to the project file
	Style      config.StyleConfig `yaml:"style"`
	Lyrics     []timeline.Event   `yaml:"lyrics"`

	path string
}

// New returns an empty project with the default style.
func New(title, artist string) *Project {
	return &Project{
		Version: Version,
		Title:   title,
		Artist:  artist,
		Style:   config.DefaultStyle(),
	}
}

// Meta returns the song info drawn on every frame.
func (p *Project) Meta() compositor.SongMeta {
	return compositor.SongMeta{Title: p.Title, Artist: p.Artist}
}

// Path is the file the project was read from, empty for a new project.
func (p *Project) Path() string {
	return p.path
}

// AudioPath resolves Audio against the directory the project was read from.
func (p *Project) AudioPath() string {
	return p.resolve(p.Audio)
}

// BackgroundPath resolves Background the same way.
func (p *Project) BackgroundPath() string {
	return p.resolve(p.Background)
}

func (p *Project) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.path == "" {
		return path
	}
	return filepath.Join(filepath.Dir(p.path), path)
}

// Write saves a project to a YAML file
func Write(p *Project, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read loads a project from a YAML file. Style keys missing from the file
// keep their defaults.
func Read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := New("", "")
	p.Version = ""
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("проект %s: %w", path, err)
	}
	if p.Version == "" {
		p.Version = Version
	}
	if err := p.Style.Validate(); err != nil {
		return nil, fmt.Errorf("проект %s: %w", path, err)
	}

	p.path = path
	return p, nil
}
