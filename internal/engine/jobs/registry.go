package jobs

import "github.com/anatolykoptev/go_jobmatch/internal/engine"

// Package-level singletons, set from main.go.
var (
	defaultStore    *Store
	defaultIngestor *Ingestor
	defaultResumes  ResumeSource
	defaultSim      engine.SimilarityScorer
)

// SetStore sets the package-level job store instance.
func SetStore(s *Store) { defaultStore = s }

// GetStore returns the package-level job store instance (may be nil).
func GetStore() *Store { return defaultStore }

// SetIngestor sets the package-level ingestor instance.
func SetIngestor(ing *Ingestor) { defaultIngestor = ing }

// GetIngestor returns the package-level ingestor instance (may be nil).
func GetIngestor() *Ingestor { return defaultIngestor }

// SetResumeSource sets the package-level resume source (may be nil).
func SetResumeSource(r ResumeSource) { defaultResumes = r }

// GetResumeSource returns the package-level resume source (may be nil).
func GetResumeSource() ResumeSource { return defaultResumes }

// SetSimilarity sets the package-level similarity capability (may be nil).
func SetSimilarity(sim engine.SimilarityScorer) { defaultSim = sim }

// GetSimilarity returns the package-level similarity capability (may be nil).
func GetSimilarity() engine.SimilarityScorer { return defaultSim }
