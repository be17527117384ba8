package resume

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxExperienceYears caps ExperienceYears.
const MaxExperienceYears = 30

type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

var (
	reEmail    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	rePhone    = regexp.MustCompile(`(\+?\d{1,3}[\-.\s]?)?\(?\d{3}\)?[\-.\s]?\d{3}[\-.\s]?\d{4}`)
	reLinkedIn = regexp.MustCompile(`(?i)linkedin\.com/in/[a-zA-Z0-9\-]+`)
	reGitHub   = regexp.MustCompile(`(?i)github\.com/[a-zA-Z0-9\-]+`)

	reSlashDate  = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	reYearRange  = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(\d{4}|present|current)`)
	reMonthYear  = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}`)
	datePatterns = []*regexp.Regexp{reSlashDate, reYearRange, reMonthYear}
)

// ExtractContactInfo returns the first email, phone, LinkedIn and GitHub
// reference found in text.
func ExtractContactInfo(text string) ContactInfo {
	return ContactInfo{
		Email:    reEmail.FindString(text),
		Phone:    strings.TrimSpace(rePhone.FindString(text)),
		LinkedIn: reLinkedIn.FindString(text),
		GitHub:   reGitHub.FindString(text),
	}
}

// ExtractDates lists date-like spans grouped by pattern: d/m/yyyy, year
// ranges, then month-year.
func ExtractDates(text string) []string {
	var out []string
	for _, re := range datePatterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}

// ExperienceYears sums the spans of all year ranges ("2018 - 2021",
// "2020 - present") relative to now, capped at MaxExperienceYears.
// Overlapping ranges are counted twice.
func ExperienceYears(text string, now time.Time) int {
	total := 0
	for _, m := range reYearRange.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := now.Year()
		if e := strings.ToLower(m[2]); e != "present" && e != "current" {
			if end, err = strconv.Atoi(m[2]); err != nil {
				continue
			}
		}
		if end >= start {
			total += end - start
		}
	}
	return min(total, MaxExperienceYears)
}
