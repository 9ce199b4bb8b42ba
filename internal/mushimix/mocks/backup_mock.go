package mocks

import (
	"errors"
	"sort"
)

// MockBackupStore はBackupStoreのモック実装です
type MockBackupStore struct {
	Backups      map[string]bool // バックアップ済みのコンテナ
	Restored     []string
	RestoreErr   map[string]error
	BackupErr    error
	ListErr      error
	BackupCalls  int
	RestoreCalls int
}

// NewMockBackupStore は新しいMockBackupStoreを作成します
func NewMockBackupStore() *MockBackupStore {
	return &MockBackupStore{
		Backups:    make(map[string]bool),
		RestoreErr: make(map[string]error),
	}
}

// Backup はモック実装です
func (m *MockBackupStore) Backup(path string) (bool, error) {
	m.BackupCalls++
	if m.BackupErr != nil {
		return false, m.BackupErr
	}
	if m.Backups[path] {
		return false, nil
	}
	m.Backups[path] = true
	return true, nil
}

// Restore はモック実装です
func (m *MockBackupStore) Restore(path string) (string, error) {
	m.RestoreCalls++
	if err, ok := m.RestoreErr[path]; ok {
		return "", err
	}
	if !m.Backups[path] {
		return "", errors.New("backup not found")
	}
	m.Restored = append(m.Restored, path)
	return path + ".backup", nil
}

// List はモック実装です
func (m *MockBackupStore) List(gameDir string) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	paths := make([]string, 0, len(m.Backups))
	for p := range m.Backups {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
