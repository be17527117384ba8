package export

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/careermate/internal/common"
	"github.com/joseph-ayodele/careermate/internal/resume"
)

const (
	MatchesSheet = "Matches"
	maxCellText  = 300
	topKeyphrase = 10
)

var matchHeaders = []string{
	"Rank",
	"Candidate",
	"Source",
	"Match Score",
	"Experience (yrs)",
	"Email",
	"Phone",
	"Matched Keywords",
	"Missing Keywords",
	"Top Keyphrases",
	"Method",
	"Warnings",
}

// Service produces XLSX bytes for batch match results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteMatchesXLSX returns a workbook with one row per analysis, ranked by
// match score (highest first, ties by source path).
func (s *Service) WriteMatchesXLSX(ctx context.Context, analyses []resume.Analysis) ([]byte, error) {
	start := time.Now()

	rows := slices.Clone(analyses)
	slices.SortStableFunc(rows, func(a, b resume.Analysis) int {
		if c := cmp.Compare(b.MatchScore, a.MatchScore); c != 0 {
			return c
		}
		return strings.Compare(a.Source, b.Source)
	})

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), MatchesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(MatchesSheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range matchHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(MatchesSheet, cell, h)
	}

	for i, a := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(MatchesSheet, cell, v)
		}
		write(1, i+1)
		write(2, a.Candidate)
		write(3, a.Source)
		write(4, a.MatchScore)
		write(5, a.ExperienceYears)
		write(6, a.Contact.Email)
		write(7, a.Contact.Phone)
		write(8, joinCell(a.MatchedKeywords))
		write(9, joinCell(a.MissingKeywords))
		write(10, joinCell(topPhrases(a)))
		write(11, string(a.Method))
		write(12, joinCell(a.Warnings))
	}

	_ = f.SetColWidth(MatchesSheet, "A", "A", 6)  // rank
	_ = f.SetColWidth(MatchesSheet, "B", "B", 24) // candidate
	_ = f.SetColWidth(MatchesSheet, "C", "C", 48) // source
	_ = f.SetColWidth(MatchesSheet, "D", "E", 14) // numbers
	_ = f.SetColWidth(MatchesSheet, "F", "G", 24) // contact
	_ = f.SetColWidth(MatchesSheet, "H", "J", 48) // keywords
	_ = f.SetColWidth(MatchesSheet, "K", "K", 12) // method
	_ = f.SetColWidth(MatchesSheet, "L", "L", 48) // warnings
	_ = f.SetPanes(MatchesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, common.NewAppError(common.CodeIO, "xlsx write", err)
	}

	s.logger.Info("export.xlsx.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func topPhrases(a resume.Analysis) []string {
	n := min(len(a.Keyphrases), topKeyphrase)
	out := make([]string, n)
	for i := range n {
		out[i] = a.Keyphrases[i].Phrase
	}
	return out
}

func joinCell(items []string) string {
	return truncate(strings.Join(items, ", "), maxCellText)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
