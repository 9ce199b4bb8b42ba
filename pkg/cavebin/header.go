package cavebin

import (
	"errors"
	"fmt"
	"io"
)

// Header はBINコンテナ先頭の固定長ヘッダを表します
type Header struct {
	Magic         [4]byte
	BinLength     uint32 // コンテナ全体の長さ
	MetaLength    uint32 // ヘッダ+IFDテーブルの長さ
	InternalCount uint32 // 後続するIFDの数
	Padding       [paddingSize]byte
}

// ReadHeader はストリームから0x24バイトを読み込みヘッダを解析します
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, formatErr(0, ErrShortHeader)
		}
		return nil, err
	}

	h := &Header{}
	if err := h.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return h, nil
}

// UnmarshalBinary はバイト列からヘッダを復元します
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return formatErr(int64(len(data)), ErrShortHeader)
	}

	copy(h.Magic[:], data[0x00:0x04])
	if h.Magic != Magic {
		return formatErr(0, fmt.Errorf("%w: % X", ErrBadMagic, h.Magic[:]))
	}
	h.BinLength = byteOrder.Uint32(data[0x04:])
	h.MetaLength = byteOrder.Uint32(data[0x08:])
	h.InternalCount = byteOrder.Uint32(data[0x0C:])
	copy(h.Padding[:], data[0x10:HeaderSize])
	return nil
}

// MarshalBinary はヘッダを0x24バイトに書き戻します
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	copy(buf[0x00:], h.Magic[:])
	byteOrder.PutUint32(buf[0x04:], h.BinLength)
	byteOrder.PutUint32(buf[0x08:], h.MetaLength)
	byteOrder.PutUint32(buf[0x0C:], h.InternalCount)
	copy(buf[0x10:], h.Padding[:])
	return buf, nil
}

// TableEnd はIFDテーブル末尾のオフセットを返します
func (h *Header) TableEnd() int64 {
	return HeaderSize + int64(h.InternalCount)*IFDSize
}
