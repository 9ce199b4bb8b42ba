package mocks

// ChangeLogEntry は記録された1行
type ChangeLogEntry struct {
	Action string
	Target string
	Detail string
}

// MockChangeLog はChangeLoggerのモック実装です
type MockChangeLog struct {
	Entries []ChangeLogEntry
	Error   error
}

// Append はモック実装です
func (m *MockChangeLog) Append(action, target, detail string) error {
	if m.Error != nil {
		return m.Error
	}
	m.Entries = append(m.Entries, ChangeLogEntry{Action: action, Target: target, Detail: detail})
	return nil
}

// Actions は記録されたアクションを順に返します
func (m *MockChangeLog) Actions() []string {
	actions := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		actions[i] = e.Action
	}
	return actions
}

// MockConfigFinder はConfigFinderのモック実装です
type MockConfigFinder struct {
	FoundFile string
	Error     error
}

// Find はモック実装です
func (m *MockConfigFinder) Find() (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	return m.FoundFile, nil
}
