package cavebin

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AutoIndex は差し替え対象のIFDを種別から決めることを示します
const AutoIndex = -1

// EntryAuto はIFD数から種別を判定することを示します
const EntryAuto EntryKind = -1

// Target は差し替え対象のエントリを指定します
type Target struct {
	Kind  EntryKind
	Title Title // EntryMenu の場合のみ使用
	Index int   // AutoIndex なら standard は0、menu は最後のIFD
}

// StandardTarget は通常エントリの差し替え対象を返します
func StandardTarget() Target {
	return Target{Kind: EntryStandard, Index: AutoIndex}
}

// MenuTarget はメニューエントリの差し替え対象を返します
func MenuTarget(title Title) Target {
	return Target{Kind: EntryMenu, Title: title, Index: AutoIndex}
}

// AutoTarget はIFD数から種別を判定する差し替え対象を返します
func AutoTarget(title Title) Target {
	return Target{Kind: EntryAuto, Title: title, Index: AutoIndex}
}

// Backuper は書き込み前にバックアップを作成します
//
// 既にバックアップがある場合は何もせず false を返す（先勝ち）こと。
type Backuper interface {
	Backup(path string) (bool, error)
}

// Logger はデバッグ出力のインターフェース
type Logger interface {
	Printf(format string, a ...any)
}

// PatchResult は差し替え結果
type PatchResult struct {
	Path            string
	Kind            EntryKind
	EntryIndex      int
	PreservedLength int64
	BytesWritten    int64 // 書き込んだ差し替えデータのバイト数
	NewLength       int64
	BackedUp        bool
	DryRun          bool

	// OffsetMismatch は対象のdata_offsetが保持領域の末尾と一致しないことを示す
	OffsetMismatch bool
}

// Patcher はコンテナ内の音声データを差し替えます
type Patcher struct {
	Backup Backuper
	Logger Logger
	DryRun bool
}

// NewPatcher は新しいPatcherを作成します
func NewPatcher(backup Backuper, logger Logger) *Patcher {
	return &Patcher{Backup: backup, Logger: logger}
}

func (p *Patcher) printf(format string, a ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, a...)
	}
}

// Patch はコンテナの保持領域を残し、以降を replacement で置き換えます
//
// ヘッダやIFDの長さ・オフセットは再計算しません。そのため対象はデータ領域の
// 末尾にあるエントリに限られ、それ以外は UnsupportedEntryPositionError になります。
// 書き込みは同じディレクトリの一時ファイルを経由し、最後にリネームで置き換えます。
func (p *Patcher) Patch(path string, replacement io.Reader, target Target) (*PatchResult, error) {
	if replacement == nil {
		replacement = bytes.NewReader(nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	closed := false
	closeFile := func() {
		if !closed {
			f.Close()
			closed = true
		}
	}
	defer closeFile()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	// 種別が明示されていればヘッダ解析の前に長さを確認する
	kind := target.Kind
	var preserved int64
	if kind != EntryAuto {
		preserved, err = PreservedLength(kind, target.Title)
		if err != nil {
			return nil, err
		}
		if size < preserved {
			return nil, &TruncatedContainerError{Path: path, Size: size, Required: preserved}
		}
	}

	header, entries, err := readTable(io.NewSectionReader(f, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if kind == EntryAuto {
		kind, err = DetectKind(header)
		if err != nil {
			return nil, err
		}
		preserved, err = PreservedLength(kind, target.Title)
		if err != nil {
			return nil, err
		}
		if size < preserved {
			return nil, &TruncatedContainerError{Path: path, Size: size, Required: preserved}
		}
	}
	p.printf("%s: 種別 %s, 保持領域 0x%X バイト\n", filepath.Base(path), kind, preserved)

	index, err := checkTarget(header, entries, kind, target.Index, preserved)
	if err != nil {
		return nil, err
	}

	result := &PatchResult{
		Path:            path,
		Kind:            kind,
		EntryIndex:      index,
		PreservedLength: preserved,
		OffsetMismatch:  int64(entries[index].DataOffset) != preserved,
		DryRun:          p.DryRun,
	}
	if result.OffsetMismatch {
		p.printf("%s: data_offset 0x%X と保持領域 0x%X が一致しません\n", filepath.Base(path), entries[index].DataOffset, preserved)
	}

	if p.DryRun {
		n, err := io.Copy(io.Discard, replacement)
		if err != nil {
			return nil, fmt.Errorf("差し替えデータの読み込みに失敗しました: %w", err)
		}
		result.BytesWritten = n
		result.NewLength = preserved + n
		return result, nil
	}

	if p.Backup != nil {
		created, err := p.Backup.Backup(path)
		if err != nil {
			return nil, fmt.Errorf("バックアップに失敗しました: %w", err)
		}
		result.BackedUp = created
	}

	n, err := p.replace(f, info, preserved, replacement, closeFile)
	if err != nil {
		return nil, err
	}
	result.BytesWritten = n
	result.NewLength = preserved + n

	p.printf("%s: 0x%X バイトを書き込みました\n", filepath.Base(path), result.NewLength)
	return result, nil
}

// checkTarget は差し替え対象のIFDを決定し、末尾エントリであることを確認します
func checkTarget(header *Header, entries []IFD, kind EntryKind, index int, preserved int64) (int, error) {
	if header.TableEnd() > preserved {
		return 0, &UnsupportedEntryPositionError{
			Index:  index,
			Reason: fmt.Sprintf("IFDテーブル (0x%X) が保持領域 0x%X に収まりません", header.TableEnd(), preserved),
		}
	}

	if index == AutoIndex {
		index = 0
		if kind == EntryMenu {
			index = len(entries) - 1
		}
	}
	if index < 0 || index >= len(entries) {
		return 0, fmt.Errorf("%w: %d (IFD数 %d)", ErrEntryNotFound, index, len(entries))
	}

	target := entries[index].DataOffset
	var maxOffset uint32
	for _, e := range entries {
		maxOffset = max(maxOffset, e.DataOffset)
	}
	if target < maxOffset {
		return 0, &UnsupportedEntryPositionError{Index: index, DataOffset: target, MaxOffset: maxOffset}
	}
	return index, nil
}

// replace は prefix ‖ replacement を一時ファイルに書き、元ファイルと置き換えます
func (p *Patcher) replace(src *os.File, info os.FileInfo, preserved int64, replacement io.Reader, closeSrc func()) (int64, error) {
	path := src.Name()
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.CopyN(tmp, io.NewSectionReader(src, 0, preserved), preserved); err != nil {
		return 0, fmt.Errorf("保持領域のコピーに失敗しました: %w", err)
	}
	n, err := io.Copy(tmp, replacement)
	if err != nil {
		return 0, fmt.Errorf("差し替えデータの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		p.printf("%s: パーミッションを設定できませんでした: %v\n", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("一時ファイルの同期に失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}

	// 読み込み開始から元ファイルが変わっていないことを確認
	cur, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if cur.Size() != info.Size() || !cur.ModTime().Equal(info.ModTime()) {
		return 0, fmt.Errorf("%w: %s", ErrConcurrentModification, path)
	}

	// Windowsでは開いたままのファイルを置き換えられない
	closeSrc()
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("コンテナの置き換えに失敗しました: %w", err)
	}
	committed = true
	return n, nil
}
