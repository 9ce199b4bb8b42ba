// Package cavebin はCAVE/KOMODO製タイトル（虫姫さま Steam版など）のBINコンテナを扱うパッケージです。
//
// BINコンテナは固定長ヘッダ、内部ファイル記述子（IFD）テーブル、
// そして各内部ファイルのデータ領域から構成されます。
//
//	0x000  ヘッダ (0x24バイト)
//	0x024  IFD[0] (0x114バイト)
//	...    IFD[n-1]
//	       データ領域
//
// 基本的な使い方:
//
//	c, err := cavebin.Open("ma05.bin")
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	for ok := c.EnumFirst(); ok; ok = c.EnumNext() {
//	    fmt.Println(c.GetEntryName())
//	}
//
// 音声データの差し替えは Patcher で行います。
package cavebin

import "encoding/binary"

// コンテナ形式の定数
const (
	// HeaderSize はコンテナヘッダのサイズ
	HeaderSize = 0x24

	// IFDSize はIFDレコード1件のサイズ
	IFDSize = 0x114

	// IFDBaseOffset はIFDのヘッダオフセット計算の基点
	// ヘッダ末尾(0x24)の1バイト手前だが、フォーマット資料どおりの値を使う
	IFDBaseOffset = 0x23

	// FileNameSize はIFD内のファイル名領域のサイズ
	FileNameSize = 0x104

	paddingSize = 20
)

// Magic はBINコンテナの識別子
var Magic = [4]byte{0xC0, 0x09, 0x01, 0x17}

// AudioFileType は音声エントリのファイル種別タグ
var AudioFileType = [3]byte{0x00, 0x00, 0x02}

// byteOrder は全ての整数フィールドで使うバイトオーダー
var byteOrder binary.ByteOrder = binary.BigEndian
