// Package interfaces はmushimixコマンドで使用するインターフェースを定義します
package interfaces

import (
	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	MkdirAll(path string, perm uint32) error
	Stat(name string) (FileInfo, error)
	ReadDir(dirname string) ([]DirEntry, error)
	Getwd() (string, error)
	Executable() (string, error)
}

// FileInfo はファイル情報のインターフェース
type FileInfo interface {
	Name() string
	IsDir() bool
}

// DirEntry はディレクトリエントリのインターフェース
type DirEntry interface {
	Name() string
	IsDir() bool
}

// Patcher は複数のコンテナを差し替えるインターフェース
type Patcher interface {
	PatchAll(jobs []cavebin.Job) []cavebin.BatchResult
}

// BackupStore はバックアップの作成と復元を行うインターフェース
type BackupStore interface {
	cavebin.Backuper
	Restore(path string) (string, error)
	List(gameDir string) ([]string, error)
}

// ChangeLogger は変更履歴を追記するインターフェース
type ChangeLogger interface {
	Append(action, target, detail string) error
}

// ConfigFinder は設定ファイルを検索するインターフェース
type ConfigFinder interface {
	Find() (string, error)
}

// Logger はログ出力のインターフェース
type Logger interface {
	Printf(format string, a ...any)
}
