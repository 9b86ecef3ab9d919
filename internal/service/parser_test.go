package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synahire/screening/internal/models"
)

const sampleResume = `Jordan Reyes
Senior Backend Engineer

Contact: jordan.reyes@example.com | 415-555-0134

I am passionate about distributed systems and excited to build with Go,
PostgreSQL, and Kubernetes. Available immediately.
`

func TestResumeParser_Parse(t *testing.T) {
	parser := NewResumeParser()

	job := models.Job{
		RequiredSkills:  []string{"Go", "PostgreSQL"},
		PreferredSkills: []string{"Kubernetes", "Terraform"},
	}

	t.Run("extracts attributes from a realistic resume", func(t *testing.T) {
		parsed := parser.Parse(sampleResume, job)

		assert.Equal(t, "Jordan Reyes", parsed.Name)
		assert.Equal(t, "jordan.reyes@example.com", parsed.Email)
		require.NotNil(t, parsed.Phone)
		assert.Equal(t, "415-555-0134", *parsed.Phone)
		assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, parsed.Skills)
		assert.True(t, parsed.Available)
		assert.InDelta(t, 0.5, parsed.Enthusiasm, 1e-9) // passionate + excited
		assert.Len(t, parsed.ResumeHash, 64)
	})

	t.Run("hash is stable for identical text", func(t *testing.T) {
		first := parser.Parse(sampleResume, job)
		second := parser.Parse(sampleResume, job)

		assert.Equal(t, first.ResumeHash, second.ResumeHash)
	})

	t.Run("hash differs for different text", func(t *testing.T) {
		first := parser.Parse(sampleResume, job)
		second := parser.Parse(sampleResume+"extra", job)

		assert.NotEqual(t, first.ResumeHash, second.ResumeHash)
	})

	t.Run("missing email yields empty string", func(t *testing.T) {
		parsed := parser.Parse("Jane Doe\nNo contact details here.", job)

		assert.Empty(t, parsed.Email)
		assert.Nil(t, parsed.Phone)
	})

	t.Run("skills only come from the job vocabulary", func(t *testing.T) {
		parsed := parser.Parse("Rust and Haskell expert, some Go.", job)

		assert.Equal(t, []string{"Go"}, parsed.Skills)
	})

	t.Run("enthusiasm saturates at four markers", func(t *testing.T) {
		text := "passionate excited eager enthusiastic motivated"
		parsed := parser.Parse(text, job)

		assert.InDelta(t, 1.0, parsed.Enthusiasm, 1e-9)
	})

	t.Run("no availability markers means not available", func(t *testing.T) {
		parsed := parser.Parse("Jordan\njordan@example.com", job)

		assert.False(t, parsed.Available)
	})

	t.Run("name falls back to first non-empty line", func(t *testing.T) {
		parsed := parser.Parse("\n\n  Alex Kim  \nEngineer", job)

		assert.Equal(t, "Alex Kim", parsed.Name)
	})
}
