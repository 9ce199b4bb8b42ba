package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultChangeLog は変更履歴のファイル名
const DefaultChangeLog = "mushimix.log"

// ChangeLog は追記専用の変更履歴
type ChangeLog struct {
	path string
	now  func() time.Time
}

// NewChangeLog は新しいChangeLogを作成します
func NewChangeLog(path string) *ChangeLog {
	return &ChangeLog{path: path, now: time.Now}
}

// Path はログファイルのパスを返します
func (l *ChangeLog) Path() string {
	return l.path
}

// Append は1行を追記します
func (l *ChangeLog) Append(action, target, detail string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDirectory, err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\t%s\n", l.now().Format(time.RFC3339), action, target, detail)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	return nil
}
