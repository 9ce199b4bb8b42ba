package cavebin

import (
	"fmt"
	"strings"
)

// EntryKind は差し替え対象エントリの種類
type EntryKind int

const (
	// EntryStandard は通常のBGMエントリ（ヘッダ+IFD 1件）
	EntryStandard EntryKind = iota
	// EntryMenu はメニュー用エントリ（IFD 4件の後に効果音ブロックを持つ）
	EntryMenu
)

// 保持するプレフィックス長
const (
	StandardPreservedLength = 0x138
	MenuHeaderLength        = 0x474

	standardIFDCount = 1
	menuIFDCount     = 4
)

// String はエントリ種別名を返します
func (k EntryKind) String() string {
	switch k {
	case EntryStandard:
		return "standard"
	case EntryMenu:
		return "menu"
	case EntryAuto:
		return "auto"
	default:
		return fmt.Sprintf("EntryKind(%d)", int(k))
	}
}

// Title はコンテナを所有するゲームタイトル
type Title string

// 対応タイトル
const (
	TitleMushihimesama       Title = "mushihimesama"
	TitleMushihimesamaFutari Title = "futari"
)

// trailingBlockLengths はメニューエントリ末尾の効果音ブロック長
var trailingBlockLengths = map[Title]int64{
	TitleMushihimesama:       0x139EE,
	TitleMushihimesamaFutari: 0x355B6,
}

// Titles は対応タイトルの一覧を返します
func Titles() []Title {
	return []Title{TitleMushihimesama, TitleMushihimesamaFutari}
}

// ParseTitle は文字列からタイトルを取得します
func ParseTitle(s string) (Title, error) {
	t := Title(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := trailingBlockLengths[t]; !ok {
		return "", &UnsupportedTitleError{Title: s}
	}
	return t, nil
}

// TrailingBlockLength はタイトルごとの効果音ブロック長を返します
func (t Title) TrailingBlockLength() (int64, error) {
	n, ok := trailingBlockLengths[t]
	if !ok {
		return 0, &UnsupportedTitleError{Title: string(t)}
	}
	return n, nil
}

// PreservedLength は差し替え時に元ファイルから保持するバイト数を返します
func PreservedLength(kind EntryKind, title Title) (int64, error) {
	switch kind {
	case EntryStandard:
		return StandardPreservedLength, nil
	case EntryMenu:
		trailing, err := title.TrailingBlockLength()
		if err != nil {
			return 0, err
		}
		return MenuHeaderLength + trailing, nil
	default:
		return 0, fmt.Errorf("不明なエントリ種別: %v", kind)
	}
}

// DetectKind はIFD数からエントリ種別を判定します
func DetectKind(h *Header) (EntryKind, error) {
	switch h.InternalCount {
	case standardIFDCount:
		return EntryStandard, nil
	case menuIFDCount:
		return EntryMenu, nil
	default:
		return 0, &UnsupportedEntryPositionError{
			Index:  -1,
			Reason: fmt.Sprintf("IFD数 %d のコンテナには対応していません", h.InternalCount),
		}
	}
}
