// Package parser turns extracted resume text into ResumeData using
// section-heading heuristics.
package parser

import (
	"regexp"
	"strings"

	"portfolio-backend/internal/portfolio"
)

// DefaultSummary is used when no summary section is found.
const DefaultSummary = "Professional with diverse experience."

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionSkills
	sectionEducation
	sectionExperience
	sectionProjects
	sectionContact
)

// Order matters: "Technical Skills" must not fall through to another rule.
var headings = []struct {
	re      *regexp.Regexp
	section section
}{
	{regexp.MustCompile(`(?i)^(summary|profile|objective)`), sectionSummary},
	{regexp.MustCompile(`(?i)^(skills|technical skills)`), sectionSkills},
	{regexp.MustCompile(`(?i)^(education|academic)`), sectionEducation},
	{regexp.MustCompile(`(?i)^(experience|work)`), sectionExperience},
	{regexp.MustCompile(`(?i)^(projects|portfolio)`), sectionProjects},
	{regexp.MustCompile(`(?i)^(contact|email|phone)`), sectionContact},
}

// Parse reads the first line as the name and, for each recognised heading,
// takes the line that follows it as the section value.
func Parse(text string) portfolio.ResumeData {
	data := portfolio.ResumeData{}.Normalized()
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if i == 0 && data.Name == "" {
			data.Name = line
			continue
		}
		sec := classify(line)
		if sec == sectionNone {
			continue
		}
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}
		switch sec {
		case sectionSummary:
			data.Summary = next
		case sectionSkills:
			data.Skills = splitList(next)
		case sectionEducation:
			data.Education = append(data.Education, next)
		case sectionExperience:
			data.Experience = append(data.Experience, next)
		case sectionProjects:
			data.Projects = append(data.Projects, next)
		case sectionContact:
			data.Contact = next
		}
	}

	if data.Summary == "" {
		data.Summary = DefaultSummary
	}
	return data
}

func classify(line string) section {
	for _, h := range headings {
		if h.re.MatchString(line) {
			return h.section
		}
	}
	return sectionNone
}

func splitList(line string) []string {
	out := []string{}
	for _, part := range strings.Split(line, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
