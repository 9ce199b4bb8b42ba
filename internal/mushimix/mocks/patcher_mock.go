package mocks

import (
	"io"

	"github.com/shiroemons/go-mushimix/pkg/cavebin"
)

// MockPatcher はPatcherのモック実装です
//
// Errors にパスが登録されていればそのジョブを失敗させます。
type MockPatcher struct {
	Jobs    []cavebin.Job
	Errors  map[string]error
	Results map[string]*cavebin.PatchResult
	Read    map[string][]byte
}

// NewMockPatcher は新しいMockPatcherを作成します
func NewMockPatcher() *MockPatcher {
	return &MockPatcher{
		Errors:  make(map[string]error),
		Results: make(map[string]*cavebin.PatchResult),
		Read:    make(map[string][]byte),
	}
}

// PatchAll はモック実装です
func (m *MockPatcher) PatchAll(jobs []cavebin.Job) []cavebin.BatchResult {
	m.Jobs = append(m.Jobs, jobs...)

	results := make([]cavebin.BatchResult, 0, len(jobs))
	for _, job := range jobs {
		if err, ok := m.Errors[job.Path]; ok {
			results = append(results, cavebin.BatchResult{Job: job, Err: err})
			continue
		}

		var n int64
		if job.Source != nil {
			if r, err := job.Source(); err == nil {
				data, _ := io.ReadAll(r)
				r.Close()
				m.Read[job.Path] = data
				n = int64(len(data))
			}
		}

		res, ok := m.Results[job.Path]
		if !ok {
			res = &cavebin.PatchResult{
				Path:            job.Path,
				Kind:            cavebin.EntryStandard,
				PreservedLength: cavebin.StandardPreservedLength,
				BytesWritten:    n,
				NewLength:       cavebin.StandardPreservedLength + n,
				BackedUp:        true,
			}
		}
		results = append(results, cavebin.BatchResult{Job: job, Result: res})
	}
	return results
}
