package resume

import "strings"

// GeneralSection holds lines that appear before any recognised header.
const GeneralSection = "general"

const maxHeaderLen = 50

// sectionHeaders is checked in order; the first section with a matching
// keyword wins.
var sectionHeaders = []struct {
	name     string
	keywords []string
}{
	{"summary", []string{"summary", "profile", "objective", "about"}},
	{"experience", []string{"experience", "work", "employment", "career", "professional"}},
	{"education", []string{"education", "academic", "degree", "university", "college"}},
	{"skills", []string{"skills", "technical", "technologies", "tools", "competencies"}},
	{"projects", []string{"projects", "portfolio", "work samples"}},
	{"certifications", []string{"certifications", "certificates", "licenses"}},
	{"achievements", []string{"achievements", "awards", "honors", "accomplishments"}},
}

// ExtractSections splits resume text into named sections. A short line
// (under 50 characters) containing a header keyword starts a new section;
// a later section with the same name replaces the earlier one.
func ExtractSections(text string) map[string]string {
	sections := map[string]string{}
	current := GeneralSection
	var content []string

	flush := func() {
		if len(content) > 0 {
			sections[current] = strings.Join(content, "\n")
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if name, ok := sectionHeader(line); ok {
			flush()
			current = name
			content = content[:0]
			continue
		}
		content = append(content, line)
	}
	flush()
	return sections
}

func sectionHeader(line string) (string, bool) {
	if len(line) >= maxHeaderLen {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, h := range sectionHeaders {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.name, true
			}
		}
	}
	return "", false
}
