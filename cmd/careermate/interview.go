package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/interview"
	"github.com/joseph-ayodele/careermate/internal/nlp"
)

func (c *cli) newEvaluateCmd() *cobra.Command {
	var question, answer, resumePath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Grade one interview answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			resumeText, err := c.optionalText(ctx, resumePath)
			if err != nil {
				return err
			}
			svc, err := c.interviewService(ctx)
			if err != nil {
				return err
			}
			rec, err := svc.EvaluateAnswer(ctx, question, answer, resumeText)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "interview question")
	cmd.Flags().StringVar(&answer, "answer", "", "candidate answer")
	cmd.Flags().StringVar(&resumePath, "resume", "", "optional resume for context")
	_ = cmd.MarkFlagRequired("question")
	_ = cmd.MarkFlagRequired("answer")
	return cmd
}

func (c *cli) newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <resume>",
		Short: "Generate interview questions from a resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := c.documentText(ctx, args[0])
			if err != nil {
				return err
			}
			svc, err := c.interviewService(ctx)
			if err != nil {
				return err
			}
			qs, err := svc.GenerateQuestions(ctx, text)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), qs)
		},
	}
}

func (c *cli) newInterviewCmd() *cobra.Command {
	var (
		rounds int
		intro  string
	)
	cmd := &cobra.Command{
		Use:   "interview <resume>",
		Short: "Run an interactive mock interview on the terminal",
		Long: `Asks one question per round, reading each answer as a single line from
stdin, grades it, and prints a final report. An empty answer ends early.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := c.documentText(ctx, args[0])
			if err != nil {
				return err
			}
			svc, err := c.interviewService(ctx)
			if err != nil {
				return err
			}
			candidate := ""
			if norm, err := nlp.Default(); err == nil {
				candidate, _ = norm.ExtractIdentity(text)
			}

			sess := interview.NewSession(candidate, text, intro)
			out := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())
			in.Buffer(make([]byte, 0, 64*1024), 1<<20)

			for round := 1; round <= rounds; round++ {
				q, err := svc.NextQuestion(ctx, sess)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n[%d/%d] %s\n> ", round, rounds, q.Text)
				if !in.Scan() {
					break
				}
				answer := strings.TrimSpace(in.Text())
				if answer == "" {
					break
				}
				rec, err := svc.Answer(ctx, sess, lastQuestion(q.Text), answer)
				if err != nil {
					return err
				}
				if rec.Score != nil {
					fmt.Fprintf(out, "score: %g/10\n", *rec.Score)
				}
				fmt.Fprintf(out, "feedback: %s\n", rec.Feedback)
			}
			if err := in.Err(); err != nil {
				return common.NewAppError(common.CodeIO, "read answer", err)
			}

			turns := sess.Turns()
			if len(turns) == 0 {
				return nil
			}
			report, err := svc.FinalReport(ctx, sess.Candidate, turns)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%s\n", report)
			return err
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 6, "number of questions to ask")
	cmd.Flags().StringVar(&intro, "intro", "", "short self-introduction used for the first question")
	return cmd
}

func (c *cli) newCoachCmd() *cobra.Command {
	var jdPath, message string
	cmd := &cobra.Command{
		Use:   "coach <resume>",
		Short: "Ask for career advice about a resume and job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := c.documentText(ctx, args[0])
			if err != nil {
				return err
			}
			jd, err := c.optionalText(ctx, jdPath)
			if err != nil {
				return err
			}
			svc, err := c.interviewService(ctx)
			if err != nil {
				return err
			}
			advice, err := svc.Advise(ctx, text, jd, message)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), advice)
			return err
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "job description file")
	cmd.Flags().StringVarP(&message, "message", "m", "", "what you want advice on")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

// lastQuestion drops the conversational lead-in of a generated follow-up.
func lastQuestion(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if ln := strings.TrimSpace(lines[i]); strings.Contains(ln, "?") {
			return ln
		}
	}
	return text
}
