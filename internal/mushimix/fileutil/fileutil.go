// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
)

var (
	// WavFilePattern は差し替え用の .wav ファイルのパターン
	WavFilePattern = regexp.MustCompile(`(?i)^[^.].*\.wav$`)

	// DiskDataPattern はゲームのリソースディレクトリのパターン
	DiskDataPattern = regexp.MustCompile(`^res`)
)

// 拡張子
const (
	ContainerExt     = ".bin"
	BackupExt        = ".backup"
	ArchiveBackupExt = ".backup.lz4"
)

// FromShiftJIS はShift-JISからUTF-8に変換します
func FromShiftJIS(str string) (string, error) {
	reader := strings.NewReader(str)
	transformer := japanese.ShiftJIS.NewDecoder()
	ret, err := io.ReadAll(transform.NewReader(reader, transformer))
	if err != nil {
		return "", err
	}
	return string(ret), nil
}

// TrackName は .wav ファイル名から拡張子を除いたトラック名を返します
func TrackName(wavName string) string {
	base := filepath.Base(wavName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ContainerPath はトラック名に対応するゲーム内の .bin パスを返します
func ContainerPath(gameDir, track string) string {
	return filepath.Join(gameDir, track+ContainerExt)
}

// FindWavFiles は指定されたディレクトリ内の .wav ファイルを名前順に返します
func FindWavFiles(fs interfaces.FileSystem, dir string) ([]string, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if WavFilePattern.MatchString(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FindContainers はゲームのインストール先から res*/DISKDATA/*/ 内のファイルを検索します
func FindContainers(fs interfaces.FileSystem, root string) ([]string, error) {
	entries, err := fs.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, root, err)
	}

	var files []string
	for _, res := range entries {
		if !res.IsDir() || !DiskDataPattern.MatchString(res.Name()) {
			continue
		}

		diskData := filepath.Join(root, res.Name(), "DISKDATA")
		if !fs.FileExists(diskData) {
			continue
		}
		alphas, err := fs.ReadDir(diskData)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, diskData, err)
		}

		for _, alpha := range sortedEntries(alphas) {
			if !alpha.IsDir() {
				continue
			}
			alphaDir := filepath.Join(diskData, alpha.Name())
			bins, err := fs.ReadDir(alphaDir)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, alphaDir, err)
			}
			for _, bin := range sortedEntries(bins) {
				// バックアップと書き込み途中の一時ファイルは除く
				if bin.IsDir() || strings.HasPrefix(bin.Name(), ".") || strings.HasSuffix(bin.Name(), BackupExt) {
					continue
				}
				files = append(files, filepath.Join(alphaDir, bin.Name()))
			}
		}
	}
	return files, nil
}

func sortedEntries(entries []interfaces.DirEntry) []interfaces.DirEntry {
	sorted := append([]interfaces.DirEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	return sorted
}
