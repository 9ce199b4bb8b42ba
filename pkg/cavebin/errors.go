package cavebin

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic はマジックナンバーが一致しない場合のエラー
	ErrBadMagic = errors.New("マジックナンバーが一致しません")

	// ErrShortHeader はヘッダが途中で終わっている場合のエラー
	ErrShortHeader = errors.New("ヘッダが途中で終わっています")

	// ErrShortIFD はIFDレコードが途中で終わっている場合のエラー
	ErrShortIFD = errors.New("IFDレコードが途中で終わっています")

	// ErrIndexMismatch はIFDのインデックスと位置が一致しない場合のエラー
	ErrIndexMismatch = errors.New("IFDのインデックスが位置と一致しません")

	// ErrEntryNotFound は指定されたエントリが存在しない場合のエラー
	ErrEntryNotFound = errors.New("エントリが見つかりません")

	// ErrConcurrentModification は書き込み中に元ファイルが変更された場合のエラー
	ErrConcurrentModification = errors.New("処理中にコンテナが外部から変更されました")

	// ErrNotOpen はコンテナが開かれていない場合のエラー
	ErrNotOpen = errors.New("コンテナが開かれていません")
)

// FormatError はコンテナ形式が不正な場合のエラー
type FormatError struct {
	Offset int64 // 問題が見つかったオフセット
	Err    error // 元のエラー
}

// Error はエラーメッセージを返します
func (e *FormatError) Error() string {
	return fmt.Sprintf("不正なコンテナ形式 (offset 0x%X): %v", e.Offset, e.Err)
}

// Unwrap は元のエラーを返します
func (e *FormatError) Unwrap() error {
	return e.Err
}

// TruncatedContainerError はコンテナが保持すべきプレフィックスより短い場合のエラー
type TruncatedContainerError struct {
	Path     string
	Size     int64
	Required int64
}

// Error はエラーメッセージを返します
func (e *TruncatedContainerError) Error() string {
	return fmt.Sprintf("%s: コンテナが短すぎます (0x%X バイト, 必要 0x%X バイト)", e.Path, e.Size, e.Required)
}

// UnsupportedTitleError は未対応のタイトルが指定された場合のエラー
type UnsupportedTitleError struct {
	Title string
}

// Error はエラーメッセージを返します
func (e *UnsupportedTitleError) Error() string {
	if e.Title == "" {
		return "タイトルが指定されていません"
	}
	return fmt.Sprintf("未対応のタイトルです: %s", e.Title)
}

// UnsupportedEntryPositionError は差し替え対象がデータ領域の末尾にない場合のエラー
type UnsupportedEntryPositionError struct {
	Index      int
	DataOffset uint32
	MaxOffset  uint32
	Reason     string
}

// Error はエラーメッセージを返します
func (e *UnsupportedEntryPositionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("エントリ %d は差し替えできません: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("エントリ %d はデータ領域の末尾ではありません (data_offset 0x%X, 最大 0x%X)", e.Index, e.DataOffset, e.MaxOffset)
}

func formatErr(offset int64, err error) error {
	return &FormatError{Offset: offset, Err: err}
}
