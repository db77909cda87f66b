package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/lyric2video/internal/config"
	"github.com/ivlev/lyric2video/internal/project"
	"github.com/ivlev/lyric2video/internal/source"
	"github.com/ivlev/lyric2video/internal/subtitle"
	"github.com/ivlev/lyric2video/internal/system"
	"github.com/ivlev/lyric2video/internal/timeline"
)

const (
	audioDir      = "input/audio"
	backgroundDir = "input/backgrounds"
	projectDir    = "input/projects"
	outputDir     = "output"
)

// session is a project with every path and override resolved.
type session struct {
	Project    *project.Project
	Audio      string
	Duration   float64
	Background image.Image
}

func (s *session) Events() []timeline.Event {
	return s.Project.Lyrics
}

func ensureDirs() {
	makeDirs(audioDir, backgroundDir, projectDir, outputDir)
}

// makeDirs creates every dir it can and returns the last failure.
func makeDirs(dirs ...string) error {
	var last error
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			log.Printf("[!] Не удалось создать папку %s: %v", d, err)
			last = err
		}
	}
	return last
}

// loadProject reads the project named by the flags and applies the style,
// resolution and SRT overrides.
func loadProject() (*project.Project, error) {
	path := projectPath
	if path == "" && srtPath == "" {
		latest, err := system.FindLatestProject(projectDir)
		if err != nil {
			return nil, fmt.Errorf("%v. Положите проект в %s/ или укажите --project", err, projectDir)
		}
		path = latest
		fmt.Printf("[*] Выбран проект: %s\n", path)
	}

	var p *project.Project
	if path != "" {
		var err error
		if p, err = project.Read(path); err != nil {
			return nil, err
		}
	} else {
		name := strings.TrimSuffix(filepath.Base(srtPath), filepath.Ext(srtPath))
		p = project.New(strings.ReplaceAll(name, "_", " "), "")
	}

	if stylePath != "" {
		style, err := config.LoadStyle(stylePath)
		if err != nil {
			return nil, err
		}
		p.Style = style
	}
	if resolution != "" {
		p.Style.Resolution = resolution
		if err := p.Style.Validate(); err != nil {
			return nil, err
		}
	}
	if srtPath != "" {
		events, err := subtitle.ReadSRT(srtPath)
		if err != nil {
			return nil, err
		}
		p.Lyrics = events
		fmt.Printf("[*] Тайминги из SRT: %s (%d строк)\n", srtPath, len(events))
	}

	if err := timeline.Validate(p.Lyrics); err != nil {
		log.Printf("[!] Тайминги строк: %v", err)
	}
	return p, nil
}

// loadSession resolves audio, duration and background on top of loadProject.
// withAudio=false skips audio lookup and ffprobe.
func loadSession(ctx context.Context, withAudio bool) (*session, error) {
	p, err := loadProject()
	if err != nil {
		return nil, err
	}
	s := &session{Project: p}

	if withAudio {
		s.Audio = firstNonEmpty(audioPath, p.AudioPath())
		if s.Audio == "" {
			if latest, err := system.FindLatestAudio(audioDir); err == nil {
				s.Audio = latest
				fmt.Printf("[*] Выбрано аудио: %s\n", s.Audio)
			}
		}
		if s.Audio != "" {
			d, err := system.GetAudioDuration(ctx, s.Audio)
			if err != nil {
				return nil, fmt.Errorf("длительность аудио: %w", err)
			}
			s.Duration = d
			fmt.Printf("[*] Длительность видео установлена по аудио: %.2fs\n", d)
		}
	}
	if s.Duration <= 0 {
		s.Duration = lyricsEnd(p.Lyrics)
		if withAudio && s.Duration > 0 {
			log.Printf("[!] Аудио не найдено, видео будет без звука (%.2fs)", s.Duration)
		}
	}

	bg := firstNonEmpty(backgroundPath, p.BackgroundPath())
	if bg == "" {
		if latest, err := system.FindLatestBackground(backgroundDir); err == nil {
			bg = latest
			fmt.Printf("[*] Выбран фон: %s\n", bg)
		}
	}
	if bg != "" {
		img, err := source.LoadBackground(bg)
		if err != nil {
			return nil, err
		}
		s.Background = img
	}

	return s, nil
}

// lyricsEnd is the silent-video length: one second after the last line.
func lyricsEnd(events []timeline.Event) float64 {
	end := 0.0
	for _, e := range events {
		if e.End > end {
			end = e.End
		}
	}
	if end == 0 {
		return 0
	}
	return end + 1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
