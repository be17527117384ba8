package constants

import (
	"strings"
)

type Topic string

const (
	TopicProjects       Topic = "Projects"
	TopicTechnical      Topic = "TechnicalSkills"
	TopicEducation      Topic = "Education"
	TopicBehavioral     Topic = "Behavioral"
	TopicProblemSolving Topic = "ProblemSolving"
	TopicMotivation     Topic = "Motivation"
	TopicOther          Topic = "Other"
)

var allTopics = []Topic{
	TopicProjects,
	TopicTechnical,
	TopicEducation,
	TopicBehavioral,
	TopicProblemSolving,
	TopicMotivation,
}

// InterviewTopics returns the topics an interview is expected to cover, in asking order.
func InterviewTopics() []Topic {
	out := make([]Topic, len(allTopics))
	copy(out, allTopics)
	return out
}

// topic keywords, checked in allTopics order; first hit wins
var topicKeywords = map[Topic][]string{
	TopicProjects:       {"project", "built", "worked on", "experience at", "your role", "portfolio", "internship"},
	TopicTechnical:      {"technical", "language", "framework", "database", "architecture", "algorithm", "stack", "tool", "library"},
	TopicEducation:      {"education", "degree", "university", "college", "course", "studied", "thesis", "school", "certification"},
	TopicBehavioral:     {"team", "conflict", "colleague", "feedback", "disagree", "leadership", "communicat", "collaborat"},
	TopicProblemSolving: {"problem", "debug", "challenge", "approach", "solve", "troubleshoot", "bug", "difficult"},
	TopicMotivation:     {"motivat", "career", "goal", "why do you", "five years", "passion", "interested in", "aspire"},
}

// Canonicalize maps free text (a topic label or a whole question) to a Topic.
func Canonicalize(input string) (Topic, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return TopicOther, false
	}

	for _, t := range allTopics {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}

	synonyms := map[string]Topic{
		"experience":      TopicProjects,
		"skills":          TopicTechnical,
		"background":      TopicEducation,
		"soft skills":     TopicBehavioral,
		"problem solving": TopicProblemSolving,
		"career goals":    TopicMotivation,
	}
	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allTopics {
		for _, kw := range topicKeywords[t] {
			if strings.Contains(normalized, kw) {
				return t, true
			}
		}
	}
	return TopicOther, false
}
