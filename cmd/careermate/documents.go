package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/relevance"
)

func (c *cli) newOCRCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ocr <file>",
		Short: "Recover plain text from a PDF or image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFile(args[0])
			if err != nil {
				return err
			}
			ctx := common.WithDocument(cmd.Context(), args[0])
			res := c.extractor().Recover(ctx, data)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"text":        res.Text,
					"pages":       res.Pages,
					"method":      res.Method,
					"confidence":  res.Confidence,
					"warnings":    res.Warnings,
					"duration_ms": res.Duration.Milliseconds(),
				})
			}
			if res.Text == "" {
				return common.NewAppError(common.CodeInput, "no text recovered", common.ErrUnsupported)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full recovery result as JSON")
	return cmd
}

func (c *cli) newAnalyzeCmd() *cobra.Command {
	var jdPath string
	cmd := &cobra.Command{
		Use:   "analyze <resume>",
		Short: "Score a resume against a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			jd, err := c.optionalText(ctx, jdPath)
			if err != nil {
				return err
			}
			an, err := c.analyzer()
			if err != nil {
				return err
			}
			res, err := analyzeFile(ctx, an, args[0], jd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "job description file (text, PDF or image)")
	return cmd
}

func (c *cli) newKeywordsCmd() *cobra.Command {
	var (
		top       int
		compareTo string
	)
	cmd := &cobra.Command{
		Use:   "keywords <file>",
		Short: "List the keyphrases of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := c.documentText(ctx, args[0])
			if err != nil {
				return err
			}
			sc, err := c.scorer()
			if err != nil {
				return err
			}
			if top <= 0 {
				top = c.cfg.Scoring.TopN
			}
			out := struct {
				Keyphrases []relevance.Keyphrase `json:"keyphrases"`
				Similarity *float64              `json:"similarity,omitempty"`
			}{Keyphrases: sc.ExtractKeyphrases(text, top)}

			if strings.TrimSpace(compareTo) != "" {
				other, err := c.documentText(ctx, compareTo)
				if err != nil {
					return err
				}
				sim := sc.Similarity(text, other)
				out.Similarity = &sim
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "maximum keyphrases (default from scoring.top_n)")
	cmd.Flags().StringVar(&compareTo, "compare", "", "second document to report semantic similarity against")
	return cmd
}
