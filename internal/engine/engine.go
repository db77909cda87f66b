package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lyric2video/internal/compositor"
	"github.com/ivlev/lyric2video/internal/config"
	"github.com/ivlev/lyric2video/internal/fade"
	"github.com/ivlev/lyric2video/internal/system"
	"github.com/ivlev/lyric2video/internal/timeline"
	"github.com/ivlev/lyric2video/internal/video"
)

const (
	FramePattern = "frame_%06d.png"
	OutputFile   = "output.mp4"

	// MaxFrames is the longest render the six-digit frame names can order
	// correctly: about 9.26 hours at 30 fps.
	MaxFrames = 1000000
)

// FrameName is the encoder input name of frame i. Zero padding keeps the
// lexicographic order of names equal to the frame order for i < MaxFrames.
func FrameName(i int) string {
	return fmt.Sprintf(FramePattern, i)
}

// Assets are the inputs shared by every frame.
type Assets struct {
	Audio      string      // path to the audio file, empty for a silent video
	Background image.Image // may be nil
	Duration   float64     // seconds, normally the audio length
}

// Job is one song to export.
type Job struct {
	Events []timeline.Event
	Style  config.StyleConfig
	Assets Assets
	Meta   compositor.SongMeta
}

// Options are the observer hooks of an export. They are called from the
// goroutine that made the transition, never concurrently with themselves.
type Options struct {
	OnState    func(State)
	OnProgress func(percent float64)

	// BenchmarkLog is where ShowStats appends its line. Defaults to benchmark.log.
	BenchmarkLog string
}

// linker is implemented by encoders that can take a file without copying it.
type linker interface {
	LinkInput(name, src string) error
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

type Exporter struct {
	Options Options

	cfg config.Config
	enc video.Encoder

	surfaces *system.SurfacePool
	buffers  system.BufferPool

	mu      sync.Mutex
	state   State
	running bool
	stats   Stats
}

func NewExporter(cfg config.Config, enc video.Encoder) *Exporter {
	if cfg.FPS <= 0 {
		cfg.FPS = config.FrameRate
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Exporter{
		cfg:      cfg,
		enc:      enc,
		surfaces: system.NewSurfacePool(),
	}
}

// State returns the current phase.
func (e *Exporter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats returns timings of the last finished run.
func (e *Exporter) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Export renders every frame of the job, muxes them with the audio and
// returns the encoded video. On any error nothing is returned and the
// encoder is released.
func (e *Exporter) Export(ctx context.Context, job Job) ([]byte, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.running = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	st := Stats{
		RunID:   uuid.NewString(),
		Build:   e.cfg.BuildVersion,
		Title:   job.Meta.Title,
		Project: e.cfg.ProjectPath,
		Output:  e.cfg.OutputVideo,
		Events:  len(job.Events),
	}
	start := time.Now()

	e.setState(LoadingEncoder)
	defer e.enc.Close()
	if err := e.enc.Load(ctx); err != nil {
		return nil, e.fail(LoadingEncoder, err)
	}

	e.setState(ReadingAssets)
	total := timeline.TotalFrames(job.Assets.Duration, e.cfg.FPS)
	if total == 0 {
		return nil, e.fail(ReadingAssets, fmt.Errorf("%w: длительность %.3fs", ErrNoFrames, job.Assets.Duration))
	}
	if total > MaxFrames {
		return nil, e.fail(ReadingAssets, fmt.Errorf("%w: %d кадров, максимум %d", ErrTooLong, total, MaxFrames))
	}
	comp, err := compositor.New(job.Style, job.Assets.Background)
	if err != nil {
		return nil, e.fail(ReadingAssets, err)
	}
	audio, err := e.loadAudio(job.Assets.Audio)
	if err != nil {
		return nil, e.fail(ReadingAssets, fmt.Errorf("аудио: %w", err))
	}

	e.setState(RenderingFrames)
	renderStart := time.Now()
	if err := e.renderFrames(ctx, comp, job, total); err != nil {
		return nil, e.fail(RenderingFrames, err)
	}
	st.Render = time.Since(renderStart)
	st.Frames = total

	e.setState(Muxing)
	muxStart := time.Now()
	args := video.MuxArgs(video.MuxParams{
		FPS:          e.cfg.FPS,
		FramePattern: FramePattern,
		Audio:        audio,
		Output:       OutputFile,
		VideoEncoder: e.cfg.VideoEncoder,
		Quality:      e.cfg.Quality,
	})
	if err := e.enc.Run(ctx, args); err != nil {
		return nil, e.fail(Muxing, err)
	}
	data, err := e.enc.ReadOutput(OutputFile)
	if err != nil {
		return nil, e.fail(Muxing, err)
	}
	st.Mux = time.Since(muxStart)
	st.Total = time.Since(start)

	e.mu.Lock()
	e.stats = st
	e.mu.Unlock()
	e.setState(Done)

	if e.cfg.ShowStats {
		fmt.Print(st.Report())
		logPath := e.Options.BenchmarkLog
		if logPath == "" {
			logPath = "benchmark.log"
		}
		if err := st.AppendTo(logPath); err != nil {
			fmt.Printf("[!] Не удалось записать %s: %v\n", logPath, err)
		}
	}

	return data, nil
}

// ExportToFile runs Export and writes the result next to path first, so
// a failed or interrupted run never leaves a partial video behind.
func (e *Exporter) ExportToFile(ctx context.Context, job Job, path string) error {
	data, err := e.Export(ctx, job)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (e *Exporter) renderFrames(ctx context.Context, comp *compositor.Compositor, job Job, total int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	var mu sync.Mutex
	completed := 0

	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := e.renderFrame(comp, job, i); err != nil {
				return fmt.Errorf("кадр %d: %w", i, err)
			}

			mu.Lock()
			completed++
			e.progress(float64(completed) / float64(total) * 100)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Exporter) renderFrame(comp *compositor.Compositor, job Job, i int) error {
	t := timeline.FrameTime(i, e.cfg.FPS)
	frame := compositor.Frame{Meta: job.Meta}
	if idx, ok := timeline.ResolveFrame(job.Events, t); ok {
		ev := &job.Events[idx]
		env := fade.ExportElapsed(ev.Duration(), t-ev.Start)
		frame.Event = ev
		frame.Envelope = &env
	}

	w, h := comp.Size()
	surface := e.surfaces.Get(w, h)
	defer e.surfaces.Put(surface)

	if err := comp.Composite(surface, frame); err != nil {
		return err
	}

	buf := e.buffers.Get()
	defer e.buffers.Put(buf)
	if err := pngEncoder.Encode(buf, surface); err != nil {
		return err
	}
	return e.enc.WriteInput(FrameName(i), buf.Bytes())
}

func (e *Exporter) loadAudio(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	name := "audio" + strings.ToLower(filepath.Ext(path))
	if l, ok := e.enc.(linker); ok {
		return name, l.LinkInput(name, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return name, e.enc.WriteInput(name, data)
}

func (e *Exporter) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	if e.Options.OnState != nil {
		e.Options.OnState(s)
	}
}

func (e *Exporter) progress(pct float64) {
	if e.Options.OnProgress != nil {
		e.Options.OnProgress(pct)
	}
}

func (e *Exporter) fail(at State, err error) error {
	e.setState(Failed)
	return &StageError{State: at, Err: err}
}

// OutputName turns a song title into a file name: whitespace becomes
// underscores and path separators are dropped.
func OutputName(title string) string {
	name := strings.Join(strings.Fields(title), "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, name)
	if name == "" {
		name = "lyric_video"
	}
	return name + ".mp4"
}
