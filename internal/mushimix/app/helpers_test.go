package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

// standardContainer はIFDが1つの通常エントリのコンテナを組み立てます
func standardContainer(t *testing.T, name string, payload []byte) []byte {
	t.Helper()

	meta := uint32(cavebin.StandardPreservedLength)
	h := cavebin.Header{
		Magic:         cavebin.Magic,
		BinLength:     meta + uint32(len(payload)),
		MetaLength:    meta,
		InternalCount: 1,
	}
	ifd := cavebin.IFD{
		FileType:      cavebin.AudioFileType,
		PayloadLength: uint32(len(payload)),
		DataOffset:    meta,
	}
	ifd.SetName(name)

	hb, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	ib, err := ifd.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	out := append(hb, ib...)
	return append(out, payload...)
}

// writeFile は親ディレクトリごとファイルを作成します
func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
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
