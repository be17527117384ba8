package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/careermate/constants"
)

const maxPromptResumeChars = 6000

// BuildEvaluationPrompt asks for a JSON evaluation of a single answer.
func BuildEvaluationPrompt(question, answer, resume string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical interviewer.\n")
	if r := clip(resume, maxPromptResumeChars); r != "" {
		b.WriteString("Resume: ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("Interview Question: ")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\nCandidate Answer: ")
	b.WriteString(strings.TrimSpace(answer))
	b.WriteString("\n")
	b.WriteString("Evaluate ONLY THIS answer for clarity, relevance, and depth. ")
	b.WriteString("Provide a score out of 10 and a short feedback string (2-3 sentences). ")
	b.WriteString("Respond ONLY with a valid JSON object with keys: score, feedback, strengths, improvements, followUpQuestions. ")
	b.WriteString("Do NOT summarize the whole interview. Do NOT include any extra text.")
	return b.String()
}

// BuildQuestionsPrompt asks for a JSON array of count questions spanning the interview topics.
func BuildQuestionsPrompt(resume string, count int) string {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	topics := constants.InterviewTopics()
	labels := make([]string, len(topics))
	for i, t := range topics {
		labels[i] = fmt.Sprintf("%d) %s", i+1, topicLabel(t))
	}
	return fmt.Sprintf(
		"You are a professional technical interviewer. "+
			"Given the following resume, generate %d diverse interview questions for a technical interview. "+
			"The questions should cover: %s. "+
			"Questions should be clear, relevant, and not generic. Return ONLY a JSON array of %d questions.\n"+
			"Resume: %s",
		count, strings.Join(labels, ", "), count, clip(resume, maxPromptResumeChars))
}

// NextQuestionRequest carries what the follow-up prompt needs.
type NextQuestionRequest struct {
	Resume  string
	Intro   string
	History []Turn
	Covered []constants.Topic
	Target  constants.Topic // "" lets the model choose among the uncovered topics
}

// BuildNextQuestionPrompt asks for a short transition plus the next question.
func BuildNextQuestionPrompt(req NextQuestionRequest) string {
	var b strings.Builder
	b.WriteString("You are a professional technical interviewer. ")
	b.WriteString("Given the following resume and the previous interview questions and answers, generate the next interview question for a technical interview. ")
	if intro := strings.TrimSpace(req.Intro); intro != "" && len(req.History) == 0 {
		b.WriteString("The candidate introduced themselves as: ")
		b.WriteString(intro)
		b.WriteString("\n")
	}
	b.WriteString("First, briefly comment on the candidate's most recent answer (if any), making the transition natural and conversational. ")
	b.WriteString("Then, ask exactly one question. ")
	if len(req.Covered) > 0 {
		names := make([]string, len(req.Covered))
		for i, t := range req.Covered {
			names[i] = topicLabel(t)
		}
		b.WriteString("These topics are already covered and must NOT be asked about again: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(". ")
	}
	if req.Target != "" {
		b.WriteString("The question MUST be about: ")
		b.WriteString(topicLabel(req.Target))
		b.WriteString(". ")
	}
	b.WriteString("Return ONLY the comment and the question as plain text, no markdown, no JSON.\n")
	b.WriteString("Resume: ")
	b.WriteString(clip(req.Resume, maxPromptResumeChars))
	b.WriteString("\nPrevious Q&A:\n")
	for i, t := range req.History {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, oneLine(t.Question), oneLine(t.Answer))
	}
	return b.String()
}

// BuildReportPrompt asks for a final narrative report over all turns.
func BuildReportPrompt(candidate string, turns []Turn) string {
	if strings.TrimSpace(candidate) == "" {
		candidate = "N/A"
	}
	var b strings.Builder
	b.WriteString("You are an expert AI interviewer tasked with evaluating a candidate's technical interview performance.\n")
	b.WriteString("Candidate Name: ")
	b.WriteString(candidate)
	b.WriteString("\n")
	b.WriteString("Based on the interview questions and the candidate's responses, provide a comprehensive evaluation report. ")
	b.WriteString("Your report should include: 1) overall assessment, 2) strengths, 3) areas for improvement, 4) feedback on each question, 5) recommendations. ")
	b.WriteString("Be professional, direct, and constructive. Talk directly to the candidate.\n")
	b.WriteString("Interview Data:\n")
	for i, t := range turns {
		fmt.Fprintf(&b, "\nQuestion %d: %s\nCandidate's Response: %s\n", i+1, oneLine(t.Question), oneLine(t.Answer))
		if t.Record.Score != nil {
			fmt.Fprintf(&b, "Score: %g/10\n", *t.Record.Score)
		}
		if t.Record.Feedback != "" {
			fmt.Fprintf(&b, "Feedback: %s\n", t.Record.Feedback)
		}
	}
	return b.String()
}

// BuildCareerPrompt asks for coaching advice about a resume and a job description.
func BuildCareerPrompt(resume, jobDescription, message string) string {
	return "You are an expert AI career coach. " +
		"Given the following resume and job description, provide a detailed, helpful, and personalized response to the user's message. " +
		"Be specific, actionable, and encouraging.\n" +
		"Resume: " + clip(resume, maxPromptResumeChars) + "\n" +
		"Job Description: " + clip(jobDescription, maxPromptResumeChars) + "\n" +
		"User Message: " + strings.TrimSpace(message)
}

func topicLabel(t constants.Topic) string {
	switch t {
	case constants.TopicProjects:
		return "projects/experience"
	case constants.TopicTechnical:
		return "technical skills"
	case constants.TopicEducation:
		return "education/background"
	case constants.TopicBehavioral:
		return "behavioral/soft skills"
	case constants.TopicProblemSolving:
		return "problem-solving"
	case constants.TopicMotivation:
		return "motivation/career goals"
	default:
		return strings.ToLower(string(t))
	}
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n…(truncated)"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
