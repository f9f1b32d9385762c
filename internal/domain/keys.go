package domain

import (
	"fmt"
	"time"
)

// Cache TTLs. Resume text, skill profiles and application ledgers persist
// until explicitly overwritten.
const (
	JobsCacheTTL      = 30 * time.Minute
	ScoresCacheTTL    = time.Hour
	JobSkillsCacheTTL = 30 * time.Minute
)

// JobsKey is the current-generation listings key for a search.
func JobsKey(query, location string) string {
	return fmt.Sprintf("jobs:%s:%s", query, location)
}

// LegacyJobsKey is the previous-generation listings key, still checked on
// reads so cached data survives the key-scheme migration.
func LegacyJobsKey(query, location string) string {
	return fmt.Sprintf("jobs_v2:%s:%s", query, location)
}

// ProviderPageKey caches one page of a provider's public listing feed.
func ProviderPageKey(provider string, page, limit int) string {
	return fmt.Sprintf("jobs:%s:page_%d:limit_%d", provider, page, limit)
}

// ResumeKey stores the extracted resume text for a user.
func ResumeKey(userID string) string { return "resume:" + userID }

// SkillsKey stores the extracted resume skill profile for a user.
func SkillsKey(userID string) string { return "skills:" + userID }

// JobSkillsKey stores the extracted skill profile for one job posting.
func JobSkillsKey(jobID string) string { return "jobskills:" + jobID }

// ScoresKey stores the most recent scored match results for a user.
func ScoresKey(userID string) string { return "scores:" + userID }

// ApplicationsKey stores the application ledger for a user.
func ApplicationsKey(userID string) string { return "applications:" + userID }
