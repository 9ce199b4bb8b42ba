// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shiroemons/go-mushimix/internal/mushimix/config"
	apperrors "github.com/shiroemons/go-mushimix/internal/mushimix/errors"
	"github.com/shiroemons/go-mushimix/internal/mushimix/fileutil"
	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
	"github.com/shiroemons/go-mushimix/internal/mushimix/models"
	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

// 変更履歴に記録するアクション
const (
	ActionPatched  = "patched"
	ActionChecked  = "checked"
	ActionRestored = "restored"
	ActionFailed   = "failed"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config    *config.Config
	logger    *config.DebugLogger
	fs        interfaces.FileSystem
	patcher   interfaces.Patcher
	backup    interfaces.BackupStore
	changeLog interfaces.ChangeLogger
	stdout    io.Writer
	stderr    io.Writer
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Patcher    interfaces.Patcher
	Backup     interfaces.BackupStore
	ChangeLog  interfaces.ChangeLogger
	Stdout     io.Writer
	Stderr     io.Writer
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	logger := config.NewDebugLogger(cfg.DebugMode)

	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	backup := opts.Backup
	if backup == nil {
		backup = fileutil.NewBackupStore(fs, cfg.OutDir, logger)
	}

	patcher := opts.Patcher
	if patcher == nil {
		p := cavebin.NewPatcher(backup, logger)
		p.DryRun = cfg.DryRun
		patcher = p
	}

	changeLog := opts.ChangeLog
	if changeLog == nil {
		changeLog = fileutil.NewChangeLog(filepath.Join(cfg.OutDir, fileutil.DefaultChangeLog))
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	return &App{
		config:    cfg,
		logger:    logger,
		fs:        fs,
		patcher:   patcher,
		backup:    backup,
		changeLog: changeLog,
		stdout:    stdout,
		stderr:    stderr,
	}
}

// Run はアプリケーションを実行します
func (a *App) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var (
		summary *models.Summary
		err     error
	)
	if a.config.Restore {
		summary, err = a.restore(ctx)
	} else {
		summary, err = a.patch(ctx)
	}
	if err != nil {
		return err
	}

	if failed := summary.Failed(); len(failed) > 0 {
		return fmt.Errorf("%w: %d/%d件", apperrors.ErrPartialFailure, len(failed), len(summary.Outcomes))
	}
	return nil
}

// title は設定されたタイトルを返します。未設定なら虫姫さまとして扱います
func (a *App) title() (cavebin.Title, error) {
	if a.config.Title == "" {
		return cavebin.TitleMushihimesama, nil
	}
	return cavebin.ParseTitle(a.config.Title)
}

// tracks は入力ディレクトリの .wav から差し替え対象を組み立てます
func (a *App) tracks() ([]models.Track, error) {
	wavs, err := fileutil.FindWavFiles(a.fs, a.config.InDir)
	if err != nil {
		return nil, err
	}
	if len(wavs) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoTracks, a.config.InDir)
	}

	tracks := make([]models.Track, 0, len(wavs))
	for _, wav := range wavs {
		name := fileutil.TrackName(wav)
		tracks = append(tracks, models.Track{
			Name:    name,
			WavPath: wav,
			BinPath: fileutil.ContainerPath(a.config.GameDir, name),
		})
	}
	return tracks, nil
}

// patch は入力ディレクトリの .wav で対応するコンテナを差し替えます
func (a *App) patch(ctx context.Context) (*models.Summary, error) {
	title, err := a.title()
	if err != nil {
		return nil, err
	}
	tracks, err := a.tracks()
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{}
	var jobs []cavebin.Job
	for _, t := range tracks {
		if err := a.checkContainer(t.BinPath); err != nil {
			a.record(summary, models.Outcome{
				Target: t.BinPath,
				Action: ActionFailed,
				Err:    apperrors.NewPatchError("patch "+t.Name, t.BinPath, err),
			})
			continue
		}
		fmt.Fprintf(a.stdout, "[%s] %s -> %s\n", t.Name, filepath.Base(t.WavPath), t.BinPath)
		jobs = append(jobs, cavebin.Job{
			Path:   t.BinPath,
			Source: cavebin.FileSource(t.WavPath),
			Target: cavebin.AutoTarget(title),
		})
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	for _, r := range a.patcher.PatchAll(jobs) {
		if r.Err != nil {
			a.record(summary, models.Outcome{
				Target: r.Job.Path,
				Action: ActionFailed,
				Err:    apperrors.NewPatchError("patch", r.Job.Path, r.Err),
			})
			continue
		}

		res := r.Result
		o := models.Outcome{
			Target: res.Path,
			Action: ActionPatched,
			Detail: fmt.Sprintf("kind=%s entry=%d preserved=0x%X written=%d size=%d backup=%v",
				res.Kind, res.EntryIndex, res.PreservedLength, res.BytesWritten, res.NewLength, res.BackedUp),
		}
		if res.DryRun {
			o.Action = ActionChecked
		}
		if res.OffsetMismatch {
			o.Warning = "data_offset が保持領域の末尾と一致しません"
		}
		a.record(summary, o)
	}

	fmt.Fprintf(a.stdout, "%d件中%d件を処理しました\n", len(summary.Outcomes), summary.Succeeded())
	if !a.config.DryRun && summary.Succeeded() > 0 {
		fmt.Fprintf(a.stdout, "元のファイルは %s と %s に保存されています\n",
			filepath.Join(a.config.GameDir, "*"+fileutil.ContainerExt+fileutil.BackupExt),
			filepath.Join(a.config.OutDir, "*"+fileutil.ContainerExt+fileutil.ArchiveBackupExt))
		fmt.Fprintln(a.stdout, "元に戻すには --restore を指定して実行してください")
	}
	return summary, nil
}

// checkContainer は差し替え先が通常ファイルとして存在することを確認します
func (a *App) checkContainer(path string) error {
	info, err := a.fs.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrNotContainer
	}
	return nil
}

// restore はバックアップのあるコンテナをすべて復元します
func (a *App) restore(ctx context.Context) (*models.Summary, error) {
	paths, err := a.backup.List(a.config.GameDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, apperrors.ErrNoBackups
	}

	summary := &models.Summary{}
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if a.config.DryRun {
			a.record(summary, models.Outcome{Target: path, Action: ActionChecked})
			continue
		}

		src, err := a.backup.Restore(path)
		if err != nil {
			a.record(summary, models.Outcome{
				Target: path,
				Action: ActionFailed,
				Err:    apperrors.NewPatchError("restore", path, err),
			})
			continue
		}
		a.record(summary, models.Outcome{Target: path, Action: ActionRestored, Detail: "from=" + src})
	}

	fmt.Fprintf(a.stdout, "%d件中%d件を復元しました\n", len(summary.Outcomes), summary.Succeeded())
	return summary, nil
}

// record は結果を表示し、変更履歴に追記します
func (a *App) record(summary *models.Summary, o models.Outcome) {
	summary.Add(o)

	switch {
	case o.Err != nil:
		fmt.Fprintf(a.stderr, "エラー: %v\n", o.Err)
	default:
		fmt.Fprintf(a.stdout, "%s: %s\n", o.Action, o.Target)
	}
	if o.Warning != "" {
		fmt.Fprintf(a.stderr, "警告: %s: %s\n", o.Target, o.Warning)
	}

	// ドライランでは何も変更していないので記録しない
	if o.Action == ActionChecked {
		return
	}
	detail := o.Detail
	if o.Err != nil {
		detail = o.Err.Error()
	}
	if err := a.changeLog.Append(o.Action, o.Target, detail); err != nil {
		fmt.Fprintf(a.stderr, "警告: 変更履歴を記録できませんでした: %v\n", err)
	}
}
