package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/lyric2video/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Проиграть тайминги в терминале",
	Long: `Печатает строки текста в момент, когда они становятся активными, по
часам реального времени. Удобно для проверки таймингов без рендеринга.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var (
	previewFrom     float64
	previewInterval time.Duration
	previewVerbose  bool
)

func init() {
	f := previewCmd.Flags()
	f.Float64Var(&previewFrom, "from", 0, "Начать с момента (сек)")
	f.DurationVar(&previewInterval, "interval", 50*time.Millisecond, "Период опроса часов")
	f.BoolVarP(&previewVerbose, "verbose", "v", false, "Показывать огибающую на каждом тике")
}

func runPreview(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	events := s.Events()
	if len(events) == 0 {
		return fmt.Errorf("в проекте нет строк")
	}

	remaining := s.Duration - previewFrom
	if remaining <= 0 {
		return fmt.Errorf("начало %.2fs за концом песни (%.2fs)", previewFrom, s.Duration)
	}

	clock := preview.NewWallClock(previewFrom)
	driver := preview.NewDriver(events, clock)
	clock.Play()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(remaining*float64(time.Second)))
	defer cancel()

	fmt.Printf("[*] Предпросмотр: %d строк, %.2fs (Ctrl+C для выхода)\n", len(events), remaining)
	err = driver.Run(ctx, previewInterval, func(st preview.State) {
		if st.Changed {
			if e := st.Event(events); e != nil {
				fmt.Printf("[%s] %s\n", formatClock(st.Time), strings.ReplaceAll(e.Text, "\n", " / "))
			} else {
				fmt.Printf("[%s] ...\n", formatClock(st.Time))
			}
		}
		if previewVerbose && st.Active {
			fmt.Printf("    %s %.2f %+.1fpx\n", opacityBar(st.Envelope.Opacity, 20), st.Envelope.Opacity, st.Envelope.OffsetY)
		}
	})
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Println("[+++] Конец песни")
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func formatClock(sec float64) string {
	total := int(sec * 10)
	return fmt.Sprintf("%02d:%02d.%d", total/600, (total/10)%60, total%10)
}

func opacityBar(opacity float64, width int) string {
	n := int(opacity*float64(width) + 0.5)
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", width-n) + "]"
}
