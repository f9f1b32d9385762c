// Package jobprovider converts raw provider payloads into canonical jobs.
//
// Providers do not self-identify, so the adapter for a payload is selected
// by sniffing a provider-specific marker field. Normalization is total:
// missing fields degrade to sentinels, never to errors.
package jobprovider

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// Normalize maps one raw provider record onto the canonical Job. It is
// pure and never fails; the raw payload is preserved in Extra.
func Normalize(raw map[string]any) domain.Job {
	switch {
	case has(raw, "job_id"):
		return normalizeJSearch(raw)
	case has(raw, "_id") || has(raw, "owner") || has(raw, "descriptionBreakdown"):
		return normalizeJoinRise(raw)
	default:
		return normalizeGeneric(raw)
	}
}

func normalizeJSearch(raw map[string]any) domain.Job {
	location := strings.TrimPrefix(
		strings.TrimSpace(str(raw, "job_city")+", "+str(raw, "job_country")), ", ")
	location = strings.TrimSuffix(location, ",")
	if location == "" {
		location = domain.SentinelLocation
	}
	workMode := "On-site"
	if b, ok := raw["job_is_remote"].(bool); ok && b {
		workMode = "Remote"
	}
	return domain.Job{
		ID:          fallback(str(raw, "job_id"), newID()),
		Title:       fallback(str(raw, "job_title"), domain.SentinelTitle),
		Company:     fallback(str(raw, "employer_name"), domain.SentinelCompany),
		Description: fallback(str(raw, "job_description"), domain.SentinelDescription),
		Location:    location,
		JobType:     fallback(str(raw, "job_employment_type"), domain.SentinelJobType),
		WorkMode:    workMode,
		// JSearch rarely supplies a clean salary range; keep the sentinel.
		Salary:   domain.SentinelSalary,
		URL:      fallback(str(raw, "job_apply_link"), str(raw, "job_google_link"), domain.SentinelURL),
		PostedAt: parseTime(str(raw, "job_posted_at_datetime_utc")),
		Extra:    raw,
	}
}

func normalizeJoinRise(raw map[string]any) domain.Job {
	owner, _ := raw["owner"].(map[string]any)
	breakdown, _ := raw["descriptionBreakdown"].(map[string]any)

	company := str(owner, "companyName")
	if company == "" {
		company = fallback(str(raw, "company"), "Company Not Disclosed")
	}

	salary := domain.SentinelSalary
	if min, okMin := num(breakdown, "salaryRangeMinYearly"); okMin {
		if max, okMax := num(breakdown, "salaryRangeMaxYearly"); okMax {
			salary = fmt.Sprintf("$%s - $%s", groupThousands(min), groupThousands(max))
		}
	}
	if salary == domain.SentinelSalary {
		if s := str(raw, "salary", "salary_range", "compensation"); s != "" {
			salary = s
		}
	}

	return domain.Job{
		ID:          fallback(str(raw, "_id"), str(raw, "id"), newID()),
		Title:       fallback(str(raw, "title"), "Untitled Position"),
		Company:     company,
		Description: fallback(str(breakdown, "oneSentenceJobSummary"), str(raw, "description"), domain.SentinelDescription),
		Location:    fallback(str(raw, "locationAddress"), str(raw, "location"), domain.SentinelLocation),
		JobType:     fallback(str(breakdown, "employmentType"), str(raw, "type"), str(raw, "employment_type"), domain.SentinelJobType),
		WorkMode:    fallback(str(breakdown, "workModel"), str(raw, "type"), domain.SentinelWorkMode),
		Salary:      salary,
		URL:         fallback(str(raw, "url"), domain.SentinelURL),
		PostedAt:    parseTime(str(raw, "createdAt"), str(raw, "updatedAt"), str(raw, "posted_at")),
		Extra:       raw,
	}
}

// normalizeGeneric handles Adzuna-style and unrecognized payloads.
func normalizeGeneric(raw map[string]any) domain.Job {
	company := str(raw, "company")
	if m, ok := raw["company"].(map[string]any); ok {
		company = str(m, "display_name")
	}
	location := str(raw, "location")
	if m, ok := raw["location"].(map[string]any); ok {
		location = str(m, "display_name")
	}

	salary := domain.SentinelSalary
	if min, okMin := num(raw, "salary_min"); okMin {
		if max, okMax := num(raw, "salary_max"); okMax {
			salary = fmt.Sprintf("%s - %s", trimFloat(min), trimFloat(max))
		}
	}
	if salary == domain.SentinelSalary {
		if s := str(raw, "salary", "salary_range", "compensation"); s != "" {
			salary = s
		}
	}

	return domain.Job{
		ID:          fallback(str(raw, "id"), str(raw, "adref"), newID()),
		Title:       fallback(str(raw, "title"), domain.SentinelTitle),
		Company:     fallback(company, domain.SentinelCompany),
		Description: fallback(str(raw, "description"), domain.SentinelDescription),
		Location:    fallback(location, domain.SentinelLocation),
		JobType:     fallback(str(raw, "contract_time"), domain.SentinelJobType),
		WorkMode:    fallback(str(raw, "contract_type"), "Remote"),
		Salary:      salary,
		URL:         fallback(str(raw, "url"), str(raw, "redirect_url"), domain.SentinelURL),
		PostedAt:    parseTime(str(raw, "created"), str(raw, "posted_at")),
		Extra:       raw,
	}
}

func has(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	v, ok := m[key]
	return ok && v != nil
}

// str returns the first non-empty string value among keys.
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// num returns a numeric field as float64; JSON numbers decode as float64
// but string-encoded numbers appear in the wild too.
func num(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// fallback returns the first non-empty value.
func fallback(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTime tries each candidate as RFC3339; unparsable dates degrade to now.
func parseTime(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, c); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

// groupThousands renders 125000 as "125,000".
func groupThousands(f float64) string {
	s := strconv.FormatInt(int64(f), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// trimFloat drops a trailing ".0" style fraction from round numbers.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func newID() string { return uuid.NewString() }
