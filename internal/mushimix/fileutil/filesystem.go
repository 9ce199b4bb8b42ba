package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shiroemons/go-mushimix/internal/mushimix/interfaces"
)

// ConfigFileNames は検索対象の設定ファイル名（優先順）
var ConfigFileNames = []string{"mushimix.ini", "mushimix.config"}

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FileExists はファイルが存在するか確認します
func (fs *OSFileSystem) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// MkdirAll はディレクトリを作成します
func (fs *OSFileSystem) MkdirAll(path string, perm uint32) error {
	return os.MkdirAll(path, os.FileMode(perm))
}

// Stat はファイル情報を取得します
func (fs *OSFileSystem) Stat(name string) (interfaces.FileInfo, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ReadDir はディレクトリを読み込みます
func (fs *OSFileSystem) ReadDir(dirname string) ([]interfaces.DirEntry, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}

	result := make([]interfaces.DirEntry, len(entries))
	for i, entry := range entries {
		result[i] = entry
	}
	return result, nil
}

// Getwd は現在の作業ディレクトリを取得します
func (fs *OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

// Executable は実行ファイルのパスを取得します
func (fs *OSFileSystem) Executable() (string, error) {
	return os.Executable()
}

// ConfigFinder は設定ファイルの検索を行います
type ConfigFinder struct {
	fs interfaces.FileSystem
}

// NewConfigFinder は新しいConfigFinderを作成します
func NewConfigFinder(fs interfaces.FileSystem) *ConfigFinder {
	return &ConfigFinder{fs: fs}
}

// Find はカレントディレクトリ、次に実行ファイルと同じディレクトリから設定ファイルを検索します
//
// 見つからない場合は空文字を返します。
func (f *ConfigFinder) Find() (string, error) {
	currentDir, err := f.fs.Getwd()
	if err != nil {
		return "", err
	}
	if path, err := f.findInDir(currentDir); err != nil || path != "" {
		return path, err
	}

	execPath, err := f.fs.Executable()
	if err != nil {
		return "", err
	}
	execDir := filepath.Dir(execPath)
	if execDir == currentDir {
		return "", nil
	}
	return f.findInDir(execDir)
}

// findInDir は指定されたディレクトリ内の設定ファイルを検索します
func (f *ConfigFinder) findInDir(dir string) (string, error) {
	var found []string
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if f.fs.FileExists(path) {
			found = append(found, path)
		}
	}

	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", f.createMultipleFilesError(found)
	}
}

// createMultipleFilesError は複数の設定ファイルが見つかった場合のエラーを生成します
func (f *ConfigFinder) createMultipleFilesError(files []string) error {
	names := make([]string, len(files))
	for i, path := range files {
		names[i] = filepath.Base(path)
	}
	return fmt.Errorf("%w: %s", ErrMultipleConfigFiles, strings.Join(names, ", "))
}
