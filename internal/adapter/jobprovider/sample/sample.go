// Package sample ships a small built-in job set so the matching pipeline
// stays demonstrably functional with zero external providers configured.
package sample

import (
	_ "embed"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

//go:embed sample_jobs.yaml
var rawJobs []byte

type sampleJob struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
	JobType     string `yaml:"jobType"`
	WorkMode    string `yaml:"workMode"`
	Salary      string `yaml:"salary"`
	URL         string `yaml:"url"`
}

var (
	loadOnce sync.Once
	loaded   []sampleJob
)

// Jobs returns the built-in sample postings. PostedAt is stamped at call
// time so sample data never looks stale in listings.
func Jobs() []domain.Job {
	loadOnce.Do(func() {
		// The fixture is embedded and validated by tests; a decode error
		// here is a programming error.
		if err := yaml.Unmarshal(rawJobs, &loaded); err != nil {
			panic("sample: invalid embedded job fixture: " + err.Error())
		}
	})
	now := time.Now().UTC()
	jobs := make([]domain.Job, 0, len(loaded))
	for _, s := range loaded {
		jobs = append(jobs, domain.Job{
			ID:          s.ID,
			Title:       s.Title,
			Company:     s.Company,
			Description: s.Description,
			Location:    s.Location,
			JobType:     s.JobType,
			WorkMode:    s.WorkMode,
			Salary:      s.Salary,
			URL:         s.URL,
			PostedAt:    now,
		})
	}
	return jobs
}
