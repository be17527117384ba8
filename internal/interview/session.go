package interview

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/careermate/constants"
	"github.com/joseph-ayodele/careermate/internal/llm"
)

// Session is the state of one interview: the resume it is grounded on, the
// answered turns and the topics already asked about. Safe for concurrent use.
type Session struct {
	ID        string
	Candidate string
	Resume    string
	Intro     string

	mu      sync.Mutex
	turns   []llm.Turn
	covered mapset.Set[constants.Topic]
}

func NewSession(candidate, resume, intro string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Candidate: candidate,
		Resume:    resume,
		Intro:     intro,
		covered:   mapset.NewThreadUnsafeSet[constants.Topic](),
	}
}

// Cover marks t as asked. It reports false when t was already covered or is
// not an interview topic.
func (s *Session) Cover(t constants.Topic) bool {
	if t == "" || t == constants.TopicOther {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.covered.Add(t)
}

func (s *Session) IsCovered(t constants.Topic) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.covered.Contains(t)
}

// Covered lists covered topics in asking order.
func (s *Session) Covered() []constants.Topic {
	return s.filter(true)
}

// Remaining lists topics not yet covered, in asking order.
func (s *Session) Remaining() []constants.Topic {
	return s.filter(false)
}

func (s *Session) filter(covered bool) []constants.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []constants.Topic
	for _, t := range constants.InterviewTopics() {
		if s.covered.Contains(t) == covered {
			out = append(out, t)
		}
	}
	return out
}

// Record appends an answered turn.
func (s *Session) Record(turn llm.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Turns returns a copy of the answered turns.
func (s *Session) Turns() []llm.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
