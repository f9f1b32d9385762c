package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

func TestSkillService_Extract_ParsesAndNormalizes(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{responses: []string{"```json\n{\"technical\":[\"Go\",\"go\",\" Python \"],\"soft\":[\"Leadership\"],\"tools\":[],\"industries\":[\"Fintech\"]}\n```"}}
	svc := usecase.NewSkillService(ai, newFakeCache())

	profile := svc.Extract(context.Background(), "irrelevant", usecase.KindResume)

	assert.Equal(t, []string{"go", "python"}, profile.Technical)
	assert.Equal(t, []string{"leadership"}, profile.Soft)
	assert.Empty(t, profile.Tools)
	assert.Equal(t, []string{"fintech"}, profile.Industries)
}

func TestSkillService_Extract_FallsBackOnAIError(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{err: errors.New("boom")}
	svc := usecase.NewSkillService(ai, newFakeCache())

	profile := svc.Extract(context.Background(), "Senior engineer with Python and Docker in healthcare", usecase.KindResume)

	assert.Contains(t, profile.Technical, "python")
	assert.Contains(t, profile.Tools, "docker")
	assert.Contains(t, profile.Industries, "healthcare")
}

func TestSkillService_Extract_FallsBackOnMalformedJSON(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{responses: []string{"sorry, I cannot produce JSON today"}}
	svc := usecase.NewSkillService(ai, newFakeCache())

	profile := svc.Extract(context.Background(), "React developer", usecase.KindResume)

	assert.Contains(t, profile.Technical, "react")
}

func TestSkillService_JobProfile_Memoizes(t *testing.T) {
	t.Parallel()
	ai := &fakeAI{responses: []string{`{"technical":["kubernetes"],"soft":[],"tools":[],"industries":[]}`}}
	cache := newFakeCache()
	svc := usecase.NewSkillService(ai, cache)
	job := domain.Job{ID: "job-1", Description: "Kubernetes platform role"}

	first := svc.JobProfile(context.Background(), job)
	second := svc.JobProfile(context.Background(), job)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, ai.callCount())
	assert.True(t, cache.has(domain.JobSkillsKey("job-1")))
}

func TestKeywordExtract_SubstringScan(t *testing.T) {
	t.Parallel()
	profile := usecase.KeywordExtract("Built REST APIs with Node.js and PostgreSQL; strong leadership; AWS and Terraform; fintech background")

	assert.Contains(t, profile.Technical, "node.js")
	assert.Contains(t, profile.Technical, "postgresql")
	assert.Contains(t, profile.Soft, "leadership")
	assert.Contains(t, profile.Tools, "aws")
	assert.Contains(t, profile.Tools, "terraform")
	assert.Contains(t, profile.Industries, "fintech")
}

func TestKeywordExtract_NoMatches(t *testing.T) {
	t.Parallel()
	profile := usecase.KeywordExtract("nothing relevant here")
	assert.True(t, profile.IsEmpty())
}

func TestSkillMatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		resume domain.SkillProfile
		job    domain.SkillProfile
		want   int
	}{
		{
			name:   "empty job requirements match everyone",
			resume: domain.SkillProfile{},
			job:    domain.SkillProfile{},
			want:   100,
		},
		{
			name:   "empty resume matches nothing",
			resume: domain.SkillProfile{},
			job:    domain.SkillProfile{Technical: []string{"go"}},
			want:   0,
		},
		{
			name:   "full overlap",
			resume: domain.SkillProfile{Technical: []string{"go", "redis"}},
			job:    domain.SkillProfile{Technical: []string{"go", "redis"}},
			want:   100,
		},
		{
			name:   "half overlap rounds",
			resume: domain.SkillProfile{Technical: []string{"go"}},
			job:    domain.SkillProfile{Technical: []string{"go", "rust"}},
			want:   50,
		},
		{
			name:   "substring containment both ways",
			resume: domain.SkillProfile{Technical: []string{"react native"}},
			job:    domain.SkillProfile{Technical: []string{"react"}},
			want:   100,
		},
		{
			name:   "one of three rounds up",
			resume: domain.SkillProfile{Technical: []string{"go"}},
			job:    domain.SkillProfile{Technical: []string{"go", "rust", "c++"}},
			want:   33,
		},
		{
			name:   "category boundaries ignored",
			resume: domain.SkillProfile{Tools: []string{"docker"}},
			job:    domain.SkillProfile{Technical: []string{"docker"}},
			want:   100,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := usecase.SkillMatch(tc.resume, tc.job)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSkillMatch_Bounds(t *testing.T) {
	t.Parallel()
	resume := domain.SkillProfile{Technical: []string{"go", "python", "rust"}}
	job := domain.SkillProfile{Technical: []string{"go", "go lang"}}
	got := usecase.SkillMatch(resume, job)
	assert.GreaterOrEqual(t, got, 0)
	assert.LessOrEqual(t, got, 100)
}
