package cavebin

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
)

// Container は読み取り専用で開いたBINコンテナを表します
type Container struct {
	file     *os.File
	path     string
	size     int64
	header   *Header
	entries  []IFD
	curIndex int
}

// Open はコンテナファイルを開き、ヘッダとIFDテーブルを読み込みます
func Open(path string) (*Container, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// エラー時にクリーンアップするためのフラグ
	success := false
	defer func() {
		if !success {
			file.Close()
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	header, entries, err := readTable(file)
	if err != nil {
		return nil, err
	}

	success = true
	return &Container{
		file:     file,
		path:     path,
		size:     info.Size(),
		header:   header,
		entries:  entries,
		curIndex: -1,
	}, nil
}

// readTable は先頭からヘッダとIFDテーブルを読み込みます
func readTable(r io.Reader) (*Header, []IFD, error) {
	br := bufio.NewReader(r)
	header, err := ReadHeader(br)
	if err != nil {
		return nil, nil, err
	}
	entries, err := ReadIFDs(br, int(header.InternalCount))
	if err != nil {
		return nil, nil, err
	}
	return header, entries, nil
}

// Close はコンテナファイルを閉じます
func (c *Container) Close() error {
	if c.file != nil {
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}

// Path はコンテナのパスを返します
func (c *Container) Path() string {
	return c.path
}

// Size はコンテナのファイルサイズを返します
func (c *Container) Size() int64 {
	return c.size
}

// Header はヘッダを返します
func (c *Container) Header() *Header {
	return c.header
}

// Entries はIFDの一覧を返します
func (c *Container) Entries() []IFD {
	return c.entries
}

// EnumFirst は最初のエントリに移動します
func (c *Container) EnumFirst() bool {
	if len(c.entries) == 0 {
		return false
	}
	c.curIndex = 0
	return true
}

// EnumNext は次のエントリに移動します
func (c *Container) EnumNext() bool {
	if c.curIndex < 0 || c.curIndex+1 >= len(c.entries) {
		return false
	}
	c.curIndex++
	return true
}

// GetEntry は現在のエントリを取得します
func (c *Container) GetEntry() *IFD {
	if c.curIndex < 0 || c.curIndex >= len(c.entries) {
		return nil
	}
	return &c.entries[c.curIndex]
}

// GetEntryName は現在のエントリ名を取得します
func (c *Container) GetEntryName() string {
	if e := c.GetEntry(); e != nil {
		return e.Name()
	}
	return ""
}

// EntryRange はエントリのデータ範囲 [start, end) を返します
//
// 終端は次に大きいdata_offset、なければファイル末尾です。
func (c *Container) EntryRange(index int) (start, end int64, err error) {
	if index < 0 || index >= len(c.entries) {
		return 0, 0, fmt.Errorf("%w: %d", ErrEntryNotFound, index)
	}

	offsets := make([]int64, 0, len(c.entries))
	for _, e := range c.entries {
		offsets = append(offsets, int64(e.DataOffset))
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	start = int64(c.entries[index].DataOffset)
	end = c.size
	for _, off := range offsets {
		if off > start {
			end = off
			break
		}
	}
	if start > c.size || end < start {
		return 0, 0, formatErr(c.entries[index].HeaderOffset(), fmt.Errorf("data_offset 0x%X がファイルサイズ 0x%X を超えています", start, c.size))
	}
	return start, end, nil
}

// ExtractEntry は指定したエントリのデータをwに書き出します
func (c *Container) ExtractEntry(w io.Writer, index int) (int64, error) {
	if c.file == nil {
		return 0, ErrNotOpen
	}
	start, end, err := c.EntryRange(index)
	if err != nil {
		return 0, err
	}
	return io.Copy(w, io.NewSectionReader(c.file, start, end-start))
}
