// Package service implements the orchestration layer: resume parsing,
// screening, similarity search, scheduling, and feedback aggregation.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/synahire/screening/internal/models"
)

// ParsedResume holds the attributes extracted from plain resume text.
// Resume text arrives pre-extracted from binary formats upstream.
type ParsedResume struct {
	Name       string
	Email      string
	Phone      *string
	Skills     []string
	Available  bool
	Enthusiasm float64 // 0..1
	ResumeHash string
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// enthusiasmMarkers are counted (case-insensitively) to estimate the
// candidate's enthusiasm. Four or more distinct markers saturate the score.
var enthusiasmMarkers = []string{
	"passionate", "excited", "eager", "enthusiastic", "motivated", "thrilled", "keen", "love",
}

// availabilityMarkers signal that the candidate can start without a long notice period.
var availabilityMarkers = []string{
	"available immediately", "immediate", "available now", "open to start",
}

// ResumeParser extracts candidate attributes from plain resume text.
// Skills are matched against the job's required and preferred skill
// vocabulary, so the parser never invents skills the job doesn't ask about.
type ResumeParser struct{}

// NewResumeParser creates a ResumeParser.
func NewResumeParser() *ResumeParser {
	return &ResumeParser{}
}

// Parse extracts attributes from resumeText for screening against job.
func (p *ResumeParser) Parse(resumeText string, job models.Job) ParsedResume {
	lower := strings.ToLower(resumeText)

	hash := sha256.Sum256([]byte(resumeText))

	parsed := ParsedResume{
		Name:       firstLine(resumeText),
		Email:      emailPattern.FindString(resumeText),
		Skills:     matchSkills(lower, job),
		Available:  containsAny(lower, availabilityMarkers),
		Enthusiasm: enthusiasmScore(lower),
		ResumeHash: hex.EncodeToString(hash[:]),
	}

	if phone := phonePattern.FindString(resumeText); phone != "" {
		parsed.Phone = &phone
	}

	return parsed
}

// matchSkills returns the job's required and preferred skills that appear in
// the resume text, preserving the job's casing and order, required first.
func matchSkills(lowerResume string, job models.Job) []string {
	var matched []string

	seen := make(map[string]struct{})

	for _, skill := range append(append([]string{}, job.RequiredSkills...), job.PreferredSkills...) {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		if strings.Contains(lowerResume, key) {
			matched = append(matched, skill)
		}
	}

	return matched
}

// enthusiasmScore counts distinct enthusiasm markers and maps them to [0,1].
func enthusiasmScore(lowerResume string) float64 {
	count := 0

	for _, marker := range enthusiasmMarkers {
		if strings.Contains(lowerResume, marker) {
			count++
		}
	}

	const saturation = 4
	if count >= saturation {
		return 1
	}

	return float64(count) / saturation
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}

	return false
}

// firstLine returns the first non-empty line, used as the candidate name
// heuristic when the resume has no structured header.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	return ""
}
