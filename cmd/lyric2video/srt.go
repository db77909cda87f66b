package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/lyric2video/internal/project"
	"github.com/ivlev/lyric2video/internal/subtitle"
)

var srtCmd = &cobra.Command{
	Use:   "srt",
	Short: "Экспорт и импорт субтитров SRT",
}

var srtExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Сохранить строки проекта в SRT",
	Args:  cobra.NoArgs,
	RunE:  runSRTExport,
}

var srtImportCmd = &cobra.Command{
	Use:   "import <file.srt>",
	Short: "Создать проект из SRT",
	Long:  "Создаёт YAML-проект со стилем по умолчанию и строками из SRT-файла.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSRTImport,
}

var (
	srtOutput    string
	importTitle  string
	importArtist string
)

func init() {
	srtCmd.AddCommand(srtExportCmd)
	srtCmd.AddCommand(srtImportCmd)

	srtExportCmd.Flags().StringVarP(&srtOutput, "output", "o", "", "Путь к SRT (если пусто, output/<название>.srt)")

	srtImportCmd.Flags().StringVarP(&srtOutput, "output", "o", "", "Путь к проекту (если пусто, input/projects/<имя>.yaml)")
	srtImportCmd.Flags().StringVar(&importTitle, "title", "", "Название песни")
	srtImportCmd.Flags().StringVar(&importArtist, "artist", "", "Исполнитель")
}

func runSRTExport(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	if len(p.Lyrics) == 0 {
		return fmt.Errorf("в проекте нет строк")
	}

	output := srtOutput
	if output == "" {
		ensureDirs()
		output = filepath.Join(outputDir, subtitleName(p.Title))
	}
	if err := subtitle.WriteSRT(p.Lyrics, output); err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! SRT сохранён: %s (%d строк)\n", output, len(p.Lyrics))
	return nil
}

func runSRTImport(cmd *cobra.Command, args []string) error {
	in := args[0]
	events, err := subtitle.ReadSRT(in)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	title := importTitle
	if title == "" {
		title = strings.ReplaceAll(base, "_", " ")
	}

	p := project.New(title, importArtist)
	p.Lyrics = events
	p.Audio = audioPath
	p.Background = backgroundPath

	output := srtOutput
	if output == "" {
		ensureDirs()
		output = filepath.Join(projectDir, base+".yaml")
	}
	if err := project.Write(p, output); err != nil {
		return err
	}

	fmt.Printf("[+++] Успех! Проект сохранён: %s (%d строк)\n", output, len(events))
	return nil
}

// subtitleName mirrors the video naming: spaces to underscores.
func subtitleName(title string) string {
	name := strings.Join(strings.Fields(title), "_")
	if name == "" {
		name = "lyrics"
	}
	return name + ".srt"
}
