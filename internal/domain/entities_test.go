package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

func TestSkillProfile_Normalized(t *testing.T) {
	t.Parallel()
	p := domain.SkillProfile{
		Technical:  []string{" Go ", "go", "Python", ""},
		Soft:       []string{"Leadership", "LEADERSHIP"},
		Tools:      []string{"Docker"},
		Industries: []string{"FinTech"},
	}
	n := p.Normalized()
	assert.Equal(t, []string{"go", "python"}, n.Technical)
	assert.Equal(t, []string{"leadership"}, n.Soft)
	assert.Equal(t, []string{"docker"}, n.Tools)
	assert.Equal(t, []string{"fintech"}, n.Industries)
}

func TestSkillProfile_Flatten(t *testing.T) {
	t.Parallel()
	p := domain.SkillProfile{
		Technical:  []string{"go"},
		Soft:       []string{"communication"},
		Tools:      []string{"git"},
		Industries: []string{"saas"},
	}
	assert.Equal(t, []string{"go", "communication", "git", "saas"}, p.Flatten())
}

func TestSkillProfile_IsEmpty(t *testing.T) {
	t.Parallel()
	assert.True(t, domain.SkillProfile{}.IsEmpty())
	assert.False(t, domain.SkillProfile{Tools: []string{"git"}}.IsEmpty())
}

func TestCacheKeys(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "jobs:golang:berlin", domain.JobsKey("golang", "berlin"))
	assert.Equal(t, "jobs_v2:golang:berlin", domain.LegacyJobsKey("golang", "berlin"))
	assert.Equal(t, "jobs:joinrise:page_2:limit_10", domain.ProviderPageKey("joinrise", 2, 10))
	assert.Equal(t, "resume:u1", domain.ResumeKey("u1"))
	assert.Equal(t, "skills:u1", domain.SkillsKey("u1"))
	assert.Equal(t, "jobskills:j1", domain.JobSkillsKey("j1"))
	assert.Equal(t, "scores:u1", domain.ScoresKey("u1"))
	assert.Equal(t, "applications:u1", domain.ApplicationsKey("u1"))
}
