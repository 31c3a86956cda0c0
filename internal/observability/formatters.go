// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// writeList writes up to limit bulleted items followed by a remainder line
func writeList(sb *strings.Builder, label string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintParsedProfile outputs a human-readable summary of the fields parsed from a CV.
func (p *Printer) PrintParsedProfile(profile *types.ParsedProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", orDash(profile.Name)))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", orDash(profile.Email)))
	sb.WriteString(fmt.Sprintf("Phone:  %s\n", orDash(profile.Phone)))
	sb.WriteString("\n")

	writeList(&sb, "Skills", profile.Skills, maxItemsToShow)

	education := make([]string, 0, len(profile.Education))
	for _, e := range profile.Education {
		education = append(education, joinNonEmpty(" - ", e.Degree, e.Field, e.Institution))
	}
	writeList(&sb, "Education", education, 3)

	experience := make([]string, 0, len(profile.WorkExperience))
	for _, w := range profile.WorkExperience {
		entry := joinNonEmpty(" at ", w.Position, w.Company)
		if w.StartDate != "" {
			end := w.EndDate
			if w.Current {
				end = "present"
			}
			entry += fmt.Sprintf(" (%s - %s)", w.StartDate, orDash(end))
		}
		experience = append(experience, entry)
	}
	writeList(&sb, "Experience", experience, 3)

	if n := len(profile.Certifications); n > 0 {
		sb.WriteString(fmt.Sprintf("Certifications: %d\n", n))
	}
	if n := len(profile.Languages); n > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %d\n", n))
	}
	writeList(&sb, "Warnings", profile.Warnings, 3)

	p.printBox("PARSED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobRecommendations outputs the top ranked jobs with scores and reasons.
func (p *Printer) PrintJobRecommendations(recs *types.Recommendations[types.JobPosting]) {
	if recs == nil {
		return
	}
	p.printBox("JOB RECOMMENDATIONS", recommendationsBody(recs, func(j types.JobPosting) string {
		return joinNonEmpty(" @ ", j.Title, j.Company)
	}))
}

// PrintLearningRecommendations outputs the top ranked learning resources.
func (p *Printer) PrintLearningRecommendations(recs *types.Recommendations[types.LearningResource]) {
	if recs == nil {
		return
	}
	p.printBox("LEARNING RECOMMENDATIONS", recommendationsBody(recs, func(r types.LearningResource) string {
		return joinNonEmpty(" - ", r.Title, r.Provider)
	}))
}

func recommendationsBody[T any](recs *types.Recommendations[T], title func(T) string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommended: %d  Excluded: %d", len(recs.Items), len(recs.Excluded)))
	if recs.Partial {
		sb.WriteString("  (partial)")
	}
	sb.WriteString("\n")

	count := min(len(recs.Items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := recs.Items[i]
		sb.WriteString(fmt.Sprintf("\n#%d  %s\n", i+1, title(item.Candidate)))
		sb.WriteString(fmt.Sprintf("    Score: %.2f\n", item.Score))
		if len(item.Reasons) > 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", item.Reasons[0]))
		}
		if len(item.SkillGap) > 0 {
			sb.WriteString(fmt.Sprintf("    Gap: %s\n", strings.Join(item.SkillGap, ", ")))
		}
	}
	if len(recs.Items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more\n", len(recs.Items)-maxItemsToShow))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "-"
	}
	return strings.Join(kept, sep)
}
