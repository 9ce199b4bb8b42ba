package cavebin

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// IFD はコンテナ内の1ファイルを表す内部ファイル記述子です
type IFD struct {
	FileIndex     uint8
	FileType      [3]byte
	PayloadLength uint32 // 音声の場合はデータ長、画像では意味が異なる
	AuxMeta       uint32 // 音声では未使用
	DataOffset    uint32 // データ領域内の絶対オフセット
	FileName      [FileNameSize]byte
}

// ReadIFDs はヘッダ直後に続くcount件のIFDを読み込みます
//
// 途中で切れたレコードは返さず、インデックスと位置の不一致は FormatError になります。
func ReadIFDs(r io.Reader, count int) ([]IFD, error) {
	if count < 0 {
		return nil, formatErr(HeaderSize, fmt.Errorf("不正なIFD数: %d", count))
	}

	// 壊れたヘッダで巨大な確保をしないよう上限をつける
	ifds := make([]IFD, 0, min(count, 256))
	buf := make([]byte, IFDSize)
	for i := 0; i < count; i++ {
		offset := int64(HeaderSize) + int64(i)*IFDSize
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, formatErr(offset, fmt.Errorf("%w: %d/%d 件目", ErrShortIFD, i+1, count))
			}
			return nil, err
		}

		var ifd IFD
		if err := ifd.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		if int(ifd.FileIndex) != i {
			return nil, formatErr(offset, fmt.Errorf("%w: 位置 %d, file_index %d", ErrIndexMismatch, i, ifd.FileIndex))
		}
		ifds = append(ifds, ifd)
	}
	return ifds, nil
}

// UnmarshalBinary はバイト列からIFDを復元します
func (d *IFD) UnmarshalBinary(data []byte) error {
	if len(data) < IFDSize {
		return formatErr(0, ErrShortIFD)
	}
	d.FileIndex = data[0x00]
	copy(d.FileType[:], data[0x01:0x04])
	d.PayloadLength = byteOrder.Uint32(data[0x04:])
	d.AuxMeta = byteOrder.Uint32(data[0x08:])
	d.DataOffset = byteOrder.Uint32(data[0x0C:])
	copy(d.FileName[:], data[0x10:IFDSize])
	return nil
}

// MarshalBinary はIFDを0x114バイトに書き戻します
func (d *IFD) MarshalBinary() ([]byte, error) {
	buf := make([]byte, IFDSize)
	buf[0x00] = d.FileIndex
	copy(buf[0x01:], d.FileType[:])
	byteOrder.PutUint32(buf[0x04:], d.PayloadLength)
	byteOrder.PutUint32(buf[0x08:], d.AuxMeta)
	byteOrder.PutUint32(buf[0x0C:], d.DataOffset)
	copy(buf[0x10:], d.FileName[:])
	return buf, nil
}

// HeaderOffset はこのレコードのメタデータ領域内オフセットを返します
func (d *IFD) HeaderOffset() int64 {
	return IFDBaseOffset + int64(d.FileIndex)*IFDSize
}

// IsAudio は音声エントリかどうかを返します
func (d *IFD) IsAudio() bool {
	return d.FileType == AudioFileType
}

// Name はNUL終端を除いた内部ファイル名を返します
//
// UTF-8として不正な名前はShift-JISとして解釈します。
func (d *IFD) Name() string {
	raw := d.FileName[:]
	if n := bytes.IndexByte(raw, 0); n >= 0 {
		raw = raw[:n]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// SetName は内部ファイル名を設定します（テストデータ生成用）
func (d *IFD) SetName(name string) {
	d.FileName = [FileNameSize]byte{}
	copy(d.FileName[:FileNameSize-1], name)
}
