package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// SimilarityScorer compares a resume narrative with a job description and
// returns a similarity in [0,1]. The production implementation is backed
// by a language model and is NOT deterministic across calls; tests use a
// stub with fixed outputs.
type SimilarityScorer interface {
	Similarity(ctx context.Context, resumeNarrative, jobDescription string) (float64, error)
}

const similarityPrompt = `You compare a candidate's resume narrative with a job description.

RESUME NARRATIVE:
%s

JOB DESCRIPTION:
%s

Rate how semantically similar the candidate's actual experience is to what the job asks for.
0.0 = unrelated fields, 1.0 = the resume reads like it was written for this job.

Return ONLY a JSON object: {"similarity": <number between 0 and 1>}`

// llmSimilarity scores via the configured LLM client.
type llmSimilarity struct{}

// NewLLMSimilarity returns the LLM-backed similarity capability.
func NewLLMSimilarity() SimilarityScorer { return llmSimilarity{} }

func (llmSimilarity) Similarity(ctx context.Context, resumeNarrative, jobDescription string) (float64, error) {
	if cfg.LLMClient == nil {
		return 0, fmt.Errorf("similarity: LLM client not configured: %w", ErrConfiguration)
	}

	metrics.SimilarityCalls.Add(1)

	prompt := fmt.Sprintf(similarityPrompt,
		TruncateRunes(resumeNarrative, 4000, ""),
		TruncateRunes(jobDescription, 3000, ""),
	)

	raw, err := cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0),
		llm.WithChatMaxTokens(50),
	)
	if err != nil {
		metrics.SimilarityErrors.Add(1)
		return 0, fmt.Errorf("similarity: %v: %w", err, ErrUpstream)
	}

	score, err := parseSimilarity(raw)
	if err != nil {
		metrics.SimilarityErrors.Add(1)
		return 0, fmt.Errorf("similarity: %w", err)
	}
	return score, nil
}

// parseSimilarity extracts and clamps the similarity value from LLM output.
func parseSimilarity(raw string) (float64, error) {
	var out struct {
		Similarity float64 `json:"similarity"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return 0, fmt.Errorf("parse %q: %w", TruncateRunes(raw, 120, "..."), err)
	}
	// The model has no determinism guarantee; never trust its range.
	if out.Similarity < 0 {
		out.Similarity = 0
	}
	if out.Similarity > 1 {
		out.Similarity = 1
	}
	return out.Similarity, nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
