package system

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var (
	AudioExtensions      = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}
	BackgroundExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".pdf"}
	ProjectExtensions    = []string{".yaml", ".yml"}
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// FindLatest returns the most recently modified file in dir whose extension
// is one of exts. If path is a file, its directory is searched.
func FindLatest(path string, exts []string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	dir := path
	if !fi.IsDir() {
		dir = filepath.Dir(path)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов (%s)", dir, strings.Join(exts, ", "))
	}
	return latestFile, nil
}

func FindLatestAudio(dir string) (string, error) {
	return FindLatest(dir, AudioExtensions)
}

func FindLatestBackground(dir string) (string, error) {
	return FindLatest(dir, BackgroundExtensions)
}

func FindLatestProject(dir string) (string, error) {
	return FindLatest(dir, ProjectExtensions)
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// GetAudioDuration asks ffprobe for the container duration in seconds.
func GetAudioDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %v, output: %s", err, strings.TrimSpace(string(out)))
	}
	return parseDuration(string(out))
}

func parseDuration(out string) (float64, error) {
	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("не удалось разобрать длительность %q: %w", strings.TrimSpace(out), err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("некорректная длительность: %f", duration)
	}
	return duration, nil
}

// GetBestH264Encoder prefers hardware encoders: VideoToolbox on macOS,
// then NVENC, then software libx264.
func GetBestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encoders string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoders, name) {
			return name
		}
	}
	return "libx264"
}
