package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// ErrEncoderUnavailable is returned by Load when ffmpeg cannot be found.
var ErrEncoderUnavailable = errors.New("ffmpeg не найден в PATH")

// Encoder is the muxing capability the exporter relies on. Inputs are
// addressed by name inside a private working area; Run receives ffmpeg-style
// arguments that refer to those names. WriteInput may be called from
// several goroutines and must not keep data after it returns.
type Encoder interface {
	Load(ctx context.Context) error
	WriteInput(name string, data []byte) error
	Run(ctx context.Context, args []string) error
	ReadOutput(name string) ([]byte, error)
	Close() error
}

// FFmpegEncoder runs the system ffmpeg inside a temporary directory.
type FFmpegEncoder struct {
	Binary string // defaults to "ffmpeg"
	Keep   bool   // leave the working directory on Close, for debugging

	mu     sync.Mutex
	dir    string
	binary string
}

func (e *FFmpegEncoder) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir != "" {
		return nil
	}

	name := e.Binary
	if name == "" {
		name = "ffmpeg"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncoderUnavailable, err)
	}

	cmd := exec.CommandContext(ctx, path, "-hide_banner", "-version")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg не запускается: %v, output: %s", err, string(out))
	}

	dir, err := os.MkdirTemp("", "lyric2video_")
	if err != nil {
		return err
	}
	e.dir = dir
	e.binary = path
	return nil
}

// Dir returns the working directory, or "" before Load.
func (e *FFmpegEncoder) Dir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir
}

func (e *FFmpegEncoder) WriteInput(name string, data []byte) error {
	path, err := e.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LinkInput makes an existing file available under name without copying it
// when possible. Used for audio, which can be large.
func (e *FFmpegEncoder) LinkInput(name, src string) error {
	path, err := e.path(name)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if err := os.Symlink(abs, path); err == nil {
		return nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (e *FFmpegEncoder) Run(ctx context.Context, args []string) error {
	e.mu.Lock()
	dir, bin := e.dir, e.binary
	e.mu.Unlock()
	if dir == "" {
		return errors.New("энкодер не загружен")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %w, output: %s", err, tail(out.String(), 2000))
	}
	return nil
}

func (e *FFmpegEncoder) ReadOutput(name string) ([]byte, error) {
	path, err := e.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Close removes the working directory and everything written to it,
// unless Keep is set.
func (e *FFmpegEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dir == "" {
		return nil
	}
	var err error
	if e.Keep {
		log.Printf("[*] Рабочая папка сохранена: %s", e.dir)
	} else {
		err = os.RemoveAll(e.dir)
	}
	e.dir = ""
	return err
}

func (e *FFmpegEncoder) path(name string) (string, error) {
	dir := e.Dir()
	if dir == "" {
		return "", errors.New("энкодер не загружен")
	}
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("недопустимое имя файла: %q", name)
	}
	return filepath.Join(dir, name), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
