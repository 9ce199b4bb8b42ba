package cavebin

import (
	"fmt"
	"io"
	"strings"
)

// EntryReport はスキャン結果の1エントリ分
type EntryReport struct {
	Index         int
	Name          string
	FileType      [3]byte
	PayloadLength uint32
	HeaderOffset  int64
	DataOffset    uint32
}

// ContainerReport はコンテナのスキャン結果
type ContainerReport struct {
	Path    string
	Size    int64
	Header  Header
	Entries []EntryReport
}

// ScanContainer はコンテナのヘッダと全IFDを検証し、レポートを作成します
//
// ファイルは読み取りのみで変更しません。
func ScanContainer(path string) (*ContainerReport, error) {
	c, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer c.Close()

	report := &ContainerReport{
		Path:    path,
		Size:    c.Size(),
		Header:  *c.Header(),
		Entries: make([]EntryReport, 0, len(c.Entries())),
	}
	for i, e := range c.Entries() {
		report.Entries = append(report.Entries, EntryReport{
			Index:         i,
			Name:          e.Name(),
			FileType:      e.FileType,
			PayloadLength: e.PayloadLength,
			HeaderOffset:  e.HeaderOffset(),
			DataOffset:    e.DataOffset,
		})
	}
	return report, nil
}

// String はCAVE_CHECK.log形式のテキストを返します
func (r *ContainerReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "File :%s\n", r.Path)
	fmt.Fprintf(&b, "magic:0x%X\n", r.Header.Magic[:])
	fmt.Fprintf(&b, "bin_len:0x%08X\n", r.Header.BinLength)
	fmt.Fprintf(&b, "bin_meta_len:0x%08X\n", r.Header.MetaLength)
	fmt.Fprintf(&b, "internal_count:0x%08X\n", r.Header.InternalCount)
	fmt.Fprintf(&b, "padding:0x%X\n", r.Header.Padding[:])
	b.WriteString("--------\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "IFD_FILE: %s\n", e.Name)
		fmt.Fprintf(&b, "index: %02X  header_offset: 0X%X  data_offset: 0x%08X\n", e.Index, e.HeaderOffset, e.DataOffset)
		b.WriteString("---\n")
	}
	b.WriteString("-----------------------------\n")
	return b.String()
}

// WriteTo はレポートをwに書き出します
func (r *ContainerReport) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// LastEntry はdata_offsetが最大のエントリを返します
func (r *ContainerReport) LastEntry() (EntryReport, bool) {
	if len(r.Entries) == 0 {
		return EntryReport{}, false
	}
	last := r.Entries[0]
	for _, e := range r.Entries[1:] {
		if e.DataOffset > last.DataOffset {
			last = e
		}
	}
	return last, true
}
