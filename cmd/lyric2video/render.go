package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ivlev/lyric2video/internal/config"
	"github.com/ivlev/lyric2video/internal/engine"
	"github.com/ivlev/lyric2video/internal/system"
	"github.com/ivlev/lyric2video/internal/video"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Отрендерить видео",
	Long:  "Рендерит каждый кадр (30 FPS) и собирает MP4 с аудио через ffmpeg. Длина видео равна более короткому из потоков.",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

var (
	renderOutput  string
	renderWorkers int
	renderEncoder string
	renderQuality int
	renderStats   bool
	keepFrames    bool
	shareLink     string
	overwrite     bool
)

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderOutput, "output", "o", "", "Путь к видео (если пусто, output/<название>.mp4)")
	f.IntVarP(&renderWorkers, "workers", "w", 0, "Потоки рендеринга (0 - по CPU и памяти)")
	f.StringVar(&renderEncoder, "encoder", "", "Видеокодек ffmpeg (по умолчанию: лучший доступный H.264)")
	f.IntVarP(&renderQuality, "quality", "q", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	f.BoolVar(&renderStats, "stats", false, "Показать отчёт о производительности и дописать benchmark.log")
	f.BoolVar(&keepFrames, "keep-frames", false, "Не удалять рабочую папку с кадрами")
	f.StringVar(&shareLink, "share-link", "", "Ссылка для QR-кода в углу кадра")
	f.BoolVar(&overwrite, "force", false, "Перезаписать существующий файл")
}

func runRender(cmd *cobra.Command, args []string) error {
	system.InitResourceLimits()
	ensureDirs()

	s, err := loadSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	p := s.Project
	if shareLink != "" {
		p.Style.ShareLink = shareLink
	}

	output := renderOutput
	if output == "" {
		output = filepath.Join(outputDir, engine.OutputName(p.Title))
	}
	if fileExists(output) && !overwrite {
		return fmt.Errorf("файл %s уже существует (используйте --force)", output)
	}

	w, h := p.Style.Size()
	cfg := config.Default()
	cfg.ProjectPath = p.Path()
	cfg.OutputVideo = output
	cfg.ShowStats = renderStats
	cfg.BuildVersion = buildVersion
	cfg.KeepFrames = keepFrames

	cfg.Workers = renderWorkers
	if cfg.Workers <= 0 {
		cfg.Workers = system.RecommendedWorkers(w, h)
	}

	cfg.VideoEncoder = renderEncoder
	if cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.GetBestH264Encoder()
		if cfg.VideoEncoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
		}
	}
	cfg.Quality = renderQuality
	if cfg.Quality == 0 {
		cfg.Quality = config.DefaultQuality(cfg.VideoEncoder)
	}

	fmt.Println("--- [LYRIC VIDEO] ---")
	fmt.Printf("[*] Песня: %s - %s | Строк: %d\n", p.Artist, p.Title, len(p.Lyrics))
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Длительность: %.2fs | Потоков: %d\n", w, h, cfg.FPS, s.Duration, cfg.Workers)
	fmt.Println("---------------------")

	exp := engine.NewExporter(cfg, &video.FFmpegEncoder{Keep: cfg.KeepFrames})
	exp.Options.OnState = func(st engine.State) {
		switch st {
		case engine.RenderingFrames:
			fmt.Println("[*] Рендеринг кадров...")
		case engine.Muxing:
			fmt.Println("[*] Сборка финального видео...")
		}
	}
	exp.Options.OnProgress = progressPrinter()

	job := engine.Job{
		Events: p.Lyrics,
		Style:  p.Style,
		Assets: engine.Assets{Audio: s.Audio, Background: s.Background, Duration: s.Duration},
		Meta:   p.Meta(),
	}
	if err := exp.ExportToFile(cmd.Context(), job, output); err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", output)
	return nil
}

// progressPrinter prints every tenth percent once.
func progressPrinter() func(float64) {
	var mu sync.Mutex
	next := 10.0
	return func(pct float64) {
		mu.Lock()
		defer mu.Unlock()
		for pct >= next {
			fmt.Printf("[>] Готово: %.0f%%\n", next)
			next += 10
		}
	}
}
