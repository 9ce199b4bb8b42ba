package cavebin

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// testEntry はテスト用コンテナの1エントリ
type testEntry struct {
	name   string
	offset uint32 // 0なら直前のデータの直後
	data   []byte
}

// buildContainer はテスト用のBINコンテナを組み立てます
func buildContainer(t *testing.T, entries []testEntry) []byte {
	t.Helper()

	meta := uint32(HeaderSize + len(entries)*IFDSize)
	ifds := make([]IFD, len(entries))
	next := meta
	end := meta
	for i, e := range entries {
		off := e.offset
		if off == 0 {
			off = next
		}
		ifds[i] = IFD{
			FileIndex:     uint8(i),
			FileType:      AudioFileType,
			PayloadLength: uint32(len(e.data)),
			DataOffset:    off,
		}
		ifds[i].SetName(e.name)
		next = off + uint32(len(e.data))
		end = max(end, next)
	}

	out := make([]byte, end)
	h := Header{
		Magic:         Magic,
		BinLength:     end,
		MetaLength:    meta,
		InternalCount: uint32(len(entries)),
	}
	hb, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	copy(out, hb)
	for i := range ifds {
		b, err := ifds[i].MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary failed: %v", err)
		}
		copy(out[HeaderSize+i*IFDSize:], b)
		copy(out[ifds[i].DataOffset:], entries[i].data)
	}
	return out
}

// writeContainer はテスト用コンテナを一時ディレクトリに書き出します
func writeContainer(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return path
}

// readFile はファイル内容を読み込みます
func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return data
}

// pattern は長さnの判別しやすいバイト列を返します
func pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%251)
	}
	return b
}

// countingBackuper は呼び出し回数を記録するBackuper
type countingBackuper struct {
	calls   int
	created map[string]bool
	err     error
}

func (b *countingBackuper) Backup(path string) (bool, error) {
	b.calls++
	if b.err != nil {
		return false, b.err
	}
	if b.created == nil {
		b.created = make(map[string]bool)
	}
	if b.created[path] {
		return false, nil
	}
	b.created[path] = true
	return true, nil
}

// bufLogger はテスト用のLogger
type bufLogger struct {
	buf bytes.Buffer
}

func (l *bufLogger) Printf(format string, a ...any) {
	fmt.Fprintf(&l.buf, format, a...)
}
