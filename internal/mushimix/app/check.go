package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shiroemons/go-mushimix/internal/mushimix/config"
	apperrors "github.com/shiroemons/go-mushimix/internal/mushimix/errors"
	"github.com/shiroemons/go-mushimix/internal/mushimix/fileutil"
	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

// スキャン結果
type scanResult struct {
	path   string
	report *cavebin.ContainerReport
	err    error
}

// Checker はコンテナをスキャンしてCAVE_CHECK.logに記録します
type Checker struct {
	config *config.CheckConfig
	logger *config.DebugLogger
	fs     interfaces.FileSystem
	stdout io.Writer
	stderr io.Writer
}

// CheckOptions はCheckerの設定オプション
type CheckOptions struct {
	FileSystem interfaces.FileSystem
	Stdout     io.Writer
	Stderr     io.Writer
}

// NewChecker は新しいCheckerを作成します
func NewChecker(cfg *config.CheckConfig, opts CheckOptions) *Checker {
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Checker{
		config: cfg,
		logger: config.NewDebugLogger(cfg.DebugMode),
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run はスキャンを実行します
//
// 不正なファイルがあってもログに記録して続行し、最後にまとめてエラーを返します。
func (c *Checker) Run(ctx context.Context) error {
	files := c.config.Files
	if len(files) == 0 {
		found, err := fileutil.FindContainers(c.fs, c.config.Root)
		if err != nil {
			return err
		}
		files = found
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: %s", ErrNoContainers, c.config.Root)
	}

	results, err := c.scanParallel(ctx, files)
	if err != nil {
		return err
	}

	log, err := os.OpenFile(c.config.LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenLog, err)
	}
	defer log.Close()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			scanErr := apperrors.NewScanError("scan", r.path, r.err)
			fmt.Fprintf(log, "File :%s\nerror: %v\n-----------------------------\n", r.path, r.err)
			fmt.Fprintf(c.stderr, "エラー: %v\n", scanErr)
			continue
		}
		if _, err := r.report.WriteTo(log); err != nil {
			return fmt.Errorf("%w: %w", ErrOpenLog, err)
		}

		if c.config.List {
			c.printEntries(r.report)
		}
		if c.config.Extract {
			if err := c.extract(r.path); err != nil {
				failed++
				fmt.Fprintf(c.stderr, "エラー: %v\n", err)
			}
		}
	}

	fmt.Fprintf(c.stdout, "%d件をスキャンしました (%s)\n", len(results), c.config.LogPath)
	if failed > 0 {
		return fmt.Errorf("%w: %d/%d件", apperrors.ErrPartialFailure, failed, len(results))
	}
	return nil
}

// scanParallel はワーカーでコンテナをスキャンし、入力順に結果を返します
func (c *Checker) scanParallel(ctx context.Context, files []string) ([]scanResult, error) {
	numWorkers := c.config.Workers
	if numWorkers <= 0 {
		numWorkers = 4
	}

	type job struct {
		index int
		path  string
	}
	jobs := make(chan job, numWorkers*2)
	results := make([]scanResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				c.logger.Printf("スキャン: %s\n", j.path)
				report, err := cavebin.ScanContainer(j.path)
				results[j.index] = scanResult{path: j.path, report: report, err: err}
			}
		}()
	}

	var ctxErr error
	for i, path := range files {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
		case jobs <- job{index: i, path: path}:
		}
		if ctxErr != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	return results, nil
}

// printEntries はエントリの一覧を表示します
func (c *Checker) printEntries(report *cavebin.ContainerReport) {
	fmt.Fprintf(c.stdout, "%s (%d bytes)\n", report.Path, report.Size)
	last, _ := report.LastEntry()
	for _, e := range report.Entries {
		mark := ""
		if e.Index == last.Index {
			mark = " *"
		}
		fmt.Fprintf(c.stdout, "  %02d type=%X len=0x%08X offset=0x%08X %s%s\n",
			e.Index, e.FileType[:], e.PayloadLength, e.DataOffset, e.Name, mark)
	}
}

// extract はコンテナ内の全エントリを出力ディレクトリに書き出します
func (c *Checker) extract(path string) error {
	container, err := cavebin.Open(path)
	if err != nil {
		return apperrors.NewScanError("extract", path, fmt.Errorf("%w: %w", ErrExtract, err))
	}
	defer container.Close()

	outDir := filepath.Join(c.config.OutputDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := c.fs.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("%w: %w", fileutil.ErrCreateDirectory, err)
	}

	for i, ok := 0, container.EnumFirst(); ok; i, ok = i+1, container.EnumNext() {
		outPath := filepath.Join(outDir, EntryFileName(i, container.GetEntryName()))
		if err := extractTo(container, i, outPath); err != nil {
			return apperrors.NewEntryError("extract", path, i, fmt.Errorf("%w: %s: %w", ErrExtract, outPath, err))
		}
		c.logger.Printf("抽出: %s\n", outPath)
	}
	return nil
}

func extractTo(container *cavebin.Container, index int, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := container.ExtractEntry(f, index); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EntryFileName は抽出したエントリの保存名を返します
func EntryFileName(index int, name string) string {
	// 元のパス区切りはWindows形式の場合がある
	name = name[strings.LastIndexAny(name, `\/`)+1:]
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:*?"<>|`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "entry"
	}
	return fmt.Sprintf("%02d_%s", index, name)
}
