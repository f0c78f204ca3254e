package main

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folium/internal/cache"
	"github.com/jackzampolin/folium/internal/config"
	"github.com/jackzampolin/folium/internal/document"
	"github.com/jackzampolin/folium/internal/engine"
	"github.com/jackzampolin/folium/internal/home"
	"github.com/jackzampolin/folium/internal/measure"
	"github.com/jackzampolin/folium/internal/page"
	"github.com/jackzampolin/folium/internal/pagination"
)

var (
	paginateWidth  float64
	paginateHeight float64
	paginatePage   int
)

var paginateCmd = &cobra.Command{
	Use:   "paginate FILE",
	Short: "Paginate a plain-text file and print one page",
	Long: `paginate reads a plain-text file (paragraphs separated by a blank
line), opens it against the Pagination Engine at the configured layout, and
prints the requested page plus a status line. It exists to exercise the
engine end-to-end without a UI.`,
	Args: cobra.ExactArgs(1),
	RunE: runPaginate,
}

func init() {
	paginateCmd.Flags().Float64Var(&paginateWidth, "width", 0, "viewport width (default: config layout.viewport_width)")
	paginateCmd.Flags().Float64Var(&paginateHeight, "height", 0, "viewport height (default: config layout.viewport_height)")
	paginateCmd.Flags().IntVar(&paginatePage, "page", 0, "page index to print")
}

func runPaginate(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h, err := home.New(homeDir)
	if err != nil {
		return err
	}
	if err := h.EnsureExists(); err != nil {
		return err
	}

	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return err
	}
	cfg := mgr.Get()

	width := paginateWidth
	if width == 0 {
		width = cfg.Layout.ViewportWidth
	}
	height := paginateHeight
	if height == 0 {
		height = cfg.Layout.ViewportHeight
	}

	blocks, err := loadPlainText(args[0], cfg)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	engineCfg := engine.Config{
		Layout:     pagination.Layout{MaxWidth: width, MaxHeight: height},
		FontFamily: cfg.Font.Family,
		FontSize:   cfg.Font.SizePoints,
		LineHeight: cfg.Font.LineHeight,
	}

	m := measure.NewDefaultMeasurer()
	store := cache.NewStore(h.CachePath("", ""), logger)

	bookID := bookIDFromPath(args[0])
	e, err := engine.Open(bookID, blocks, engineCfg, m, store, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	e.EnsureWindow(cmd.Context(), paginatePage, 0)

	content, ok := e.Page(paginatePage)
	if !ok {
		return fmt.Errorf("page %d was not produced (book has %d page(s) so far)", paginatePage, e.EstimatedTotalPages())
	}

	for _, b := range content.Blocks {
		if b.Kind == page.KindText {
			fmt.Println(b.Text.Text)
		} else {
			fmt.Printf("[image, %d bytes, rendered at %.0fpx]\n", len(b.Image.Bytes), b.Image.RenderedHeight)
		}
	}
	fmt.Fprintf(os.Stderr, "--- page %d, chars [%d,%d], chapter %d ---\n",
		paginatePage, content.StartChar, content.EndChar, content.ChapterIndex)

	return nil
}

// bookIDFromPath derives a stable book ID from a file's absolute path, so
// repeated invocations against the same file reuse the same cache entry.
func bookIDFromPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])
}

// loadPlainText splits text on blank lines into paragraphs and builds one
// document.Block per paragraph, using the config's default style.
func loadPlainText(path string, cfg *config.Config) ([]document.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	style := document.Style{
		FontFamily: cfg.Font.Family,
		FontSize:   cfg.Font.SizePoints,
		LineHeight: cfg.Font.LineHeight,
	}

	var blocks []document.Block
	var para strings.Builder
	flush := func() {
		text := strings.TrimSpace(para.String())
		if text != "" {
			blocks = append(blocks, document.NewText(0, text, style, document.AlignStart, 1.0, 0, 12))
		}
		para.Reset()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if para.Len() > 0 {
			para.WriteByte(' ')
		}
		para.WriteString(strings.TrimSpace(line))
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return blocks, nil
}
