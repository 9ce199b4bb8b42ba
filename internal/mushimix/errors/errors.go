// Package errors はカスタムエラータイプを提供します
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTracks は差し替え用の .wav ファイルが見つからない場合のエラー
	ErrNoTracks = errors.New("差し替え用の .wav ファイルが見つかりません")

	// ErrNoBackups は復元できるバックアップが1つもない場合のエラー
	ErrNoBackups = errors.New("復元できるバックアップがありません")

	// ErrPartialFailure は一部のファイルの処理に失敗した場合のエラー
	ErrPartialFailure = errors.New("一部のファイルの処理に失敗しました")
)

// describe は "<op> <path>: <err>" 形式のメッセージを組み立てます
func describe(op, path string, err error) string {
	switch {
	case op == "":
		return fmt.Sprintf("%s: %v", path, err)
	case path == "":
		return fmt.Sprintf("%s: %v", op, err)
	}
	return fmt.Sprintf("%s %s: %v", op, path, err)
}

// PatchError はコンテナの差し替えや復元に失敗したことを表します
type PatchError struct {
	Op   string // patch <トラック名> / restore など
	Path string // コンテナのパス
	Err  error
}

func (e *PatchError) Error() string { return describe(e.Op, e.Path, e.Err) }

func (e *PatchError) Unwrap() error { return e.Err }

// NewPatchError は新しいPatchErrorを作成します
func NewPatchError(op, path string, err error) *PatchError {
	return &PatchError{Op: op, Path: path, Err: err}
}

// ScanError はコンテナのスキャンや抽出に失敗したことを表します
//
// Entry は抽出中のエントリ番号で、コンテナ全体の失敗では -1 です。
type ScanError struct {
	Op    string // scan / extract
	File  string
	Entry int
	Err   error
}

func (e *ScanError) Error() string {
	if e.Entry >= 0 {
		return describe(e.Op, fmt.Sprintf("%s#%02d", e.File, e.Entry), e.Err)
	}
	return describe(e.Op, e.File, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// NewScanError はコンテナ全体に関するScanErrorを作成します
func NewScanError(op, file string, err error) *ScanError {
	return &ScanError{Op: op, File: file, Entry: -1, Err: err}
}

// NewEntryError は特定のエントリに関するScanErrorを作成します
func NewEntryError(op, file string, entry int, err error) *ScanError {
	return &ScanError{Op: op, File: file, Entry: entry, Err: err}
}
