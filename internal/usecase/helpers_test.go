package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// fakeCache is an in-memory CacheStore mirroring the JSON blob contract of
// the real store, including its never-fails semantics.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	// disabled makes every operation report a miss, like a store with no
	// Redis behind it. setFails fails writes only, like a Redis that went
	// read-only or down mid-request.
	disabled bool
	setFails bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return false
	}
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, ttl time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled || f.setFails {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	f.data[key] = raw
	f.ttls[key] = ttl
	return true
}

func (f *fakeCache) seed(key string, value any) {
	raw, _ := json.Marshal(value)
	f.mu.Lock()
	f.data[key] = raw
	f.mu.Unlock()
}

func (f *fakeCache) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

// fakeAI scripts the chat completion responses per call.
type fakeAI struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
}

func (f *fakeAI) ChatJSON(_ context.Context, _, _ string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeProvider returns a scripted job list or error.
type fakeProvider struct {
	name  string
	jobs  []domain.Job
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(_ context.Context, _, _ string, _, _ int) ([]domain.Job, error) {
	f.calls++
	return f.jobs, f.err
}

func sampleJobs() []domain.Job {
	return []domain.Job{
		{ID: "sample-1", Title: "Frontend Developer", Company: "Tech Corp", Description: "react javascript css"},
	}
}
