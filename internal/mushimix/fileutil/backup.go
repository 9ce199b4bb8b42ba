package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
)

// BackupStore はコンテナのバックアップを管理します
//
// バックアップは2か所に作成します。
//   - コンテナと同じディレクトリの <name>.bin.backup（そのままのコピー）
//   - 出力ディレクトリの <name>.bin.backup.lz4（lz4フレーム）
//
// どちらも既に存在する場合は上書きしません。
type BackupStore struct {
	fs     interfaces.FileSystem
	outDir string
	logger interfaces.Logger
}

// NewBackupStore は新しいBackupStoreを作成します
func NewBackupStore(fs interfaces.FileSystem, outDir string, logger interfaces.Logger) *BackupStore {
	if fs == nil {
		fs = NewOSFileSystem()
	}
	return &BackupStore{fs: fs, outDir: outDir, logger: logger}
}

// LocalPath はコンテナ横のバックアップパスを返します
func (s *BackupStore) LocalPath(path string) string {
	return path + BackupExt
}

// ArchivePath は出力ディレクトリのバックアップパスを返します
func (s *BackupStore) ArchivePath(path string) string {
	return filepath.Join(s.outDir, filepath.Base(path)+ArchiveBackupExt)
}

// Backup はバックアップがなければ作成します
//
// いずれかのバックアップを新たに作成した場合に true を返します。
func (s *BackupStore) Backup(path string) (bool, error) {
	local, err := copyIfAbsent(path, s.LocalPath(path), func(w io.Writer) (io.WriteCloser, error) {
		return nopWriteCloser{w}, nil
	})
	if err != nil {
		return false, err
	}

	if err := s.fs.MkdirAll(s.outDir, 0755); err != nil {
		return local, fmt.Errorf("%w: %w", ErrCreateDirectory, err)
	}
	archived, err := copyIfAbsent(path, s.ArchivePath(path), func(w io.Writer) (io.WriteCloser, error) {
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.ChecksumOption(true)); err != nil {
			return nil, err
		}
		return zw, nil
	})
	if err != nil {
		return local, err
	}

	if s.logger != nil {
		s.logger.Printf("バックアップ %s: local=%v archive=%v\n", filepath.Base(path), local, archived)
	}
	return local || archived, nil
}

// copyIfAbsent は dst が存在しない場合のみ src をコピーします
//
// 一時ファイルに書き終えてからハードリンクで dst を作成するため、
// 途中で中断しても dst に不完全なバックアップが残ることはありません。
func copyIfAbsent(src, dst string, wrap func(io.Writer) (io.WriteCloser, error)) (bool, error) {
	if _, err := os.Lstat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("%w: %w", ErrCreateBackup, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCreateBackup, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeBackup(src, tmp, wrap); err != nil {
		tmp.Close()
		return false, fmt.Errorf("%w: %s: %w", ErrCreateBackup, dst, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCreateBackup, dst, err)
	}

	// 既存のバックアップは上書きしない（先勝ち）
	if err := os.Link(tmpPath, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s: %w", ErrCreateBackup, dst, err)
	}
	return true, nil
}

func writeBackup(src string, out *os.File, wrap func(io.Writer) (io.WriteCloser, error)) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := wrap(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return out.Sync()
}

// Restore はバックアップからコンテナを復元し、使用したバックアップのパスを返します
//
// コンテナ横のバックアップを優先し、なければ出力ディレクトリのものを使います。
func (s *BackupStore) Restore(path string) (string, error) {
	local := s.LocalPath(path)
	if f, err := os.Open(local); err == nil {
		defer f.Close()
		return local, s.replace(path, f)
	}

	archive := s.ArchivePath(path)
	f, err := os.Open(archive)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoBackup, path)
		}
		return "", fmt.Errorf("%w: %w", ErrRestore, err)
	}
	defer f.Close()
	return archive, s.replace(path, lz4.NewReader(f))
}

// replace は一時ファイル経由でコンテナを置き換えます
func (s *BackupStore) replace(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	if info, err := os.Stat(path); err == nil {
		tmp.Chmod(info.Mode().Perm())
	} else {
		tmp.Chmod(0644)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	committed = true
	return nil
}

// List はバックアップが存在するコンテナのパスを名前順に返します
func (s *BackupStore) List(gameDir string) ([]string, error) {
	seen := make(map[string]bool)

	collect := func(dir, suffix string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ContainerExt+suffix) {
				continue
			}
			seen[filepath.Join(gameDir, strings.TrimSuffix(name, suffix))] = true
		}
		return nil
	}

	if err := collect(gameDir, BackupExt); err != nil {
		return nil, err
	}
	if err := collect(s.outDir, ArchiveBackupExt); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
