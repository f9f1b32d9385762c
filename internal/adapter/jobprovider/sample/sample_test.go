package sample_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider/sample"
)

func TestJobs(t *testing.T) {
	t.Parallel()
	jobs := sample.Jobs()
	require.NotEmpty(t, jobs)

	seen := map[string]bool{}
	for _, j := range jobs {
		assert.NotEmpty(t, j.ID)
		assert.NotEmpty(t, j.Title)
		assert.NotEmpty(t, j.Company)
		assert.NotEmpty(t, j.Description)
		assert.False(t, seen[j.ID], "duplicate sample job id %s", j.ID)
		seen[j.ID] = true
		assert.WithinDuration(t, time.Now(), j.PostedAt, time.Minute, "sample postings are stamped fresh")
	}
}

func TestJobs_ReturnsFreshSlice(t *testing.T) {
	t.Parallel()
	a := sample.Jobs()
	a[0].Title = "mutated"
	b := sample.Jobs()
	assert.NotEqual(t, "mutated", b[0].Title, "callers must not share backing storage")
}
