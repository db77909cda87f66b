package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lyric2video",
	Short: "Рендер видео с караоке-текстом песни",
	Long: `lyric2video превращает песню, её текст с таймингами и обложку в MP4.
Проект (YAML) хранит метаданные, пути к файлам, стиль и строки текста.
Если пути не указаны, берутся самые свежие файлы из input/.`,
	Version:       buildVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	projectPath    string
	audioPath      string
	backgroundPath string
	stylePath      string
	srtPath        string
	resolution     string
)

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&projectPath, "project", "p", "", "Файл проекта YAML (по умолчанию: самый свежий в input/projects/)")
	pf.StringVarP(&audioPath, "audio", "a", "", "Путь к аудио (по умолчанию: из проекта или самый свежий в input/audio/)")
	pf.StringVarP(&backgroundPath, "background", "b", "", "Фон: изображение или PDF (по умолчанию: из проекта или input/backgrounds/)")
	pf.StringVar(&stylePath, "style", "", "YAML со стилем, заменяет стиль проекта")
	pf.StringVar(&srtPath, "srt", "", "Взять тайминги строк из SRT вместо проекта")
	pf.StringVar(&resolution, "resolution", "", "Разрешение: 480p, 720p, 1080p, square")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(srtCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(previewCmd)
}
