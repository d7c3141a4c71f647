package domain

// RecommendationAction identifies what the caller should do with a group.
type RecommendationAction string

// Available recommendation actions.
const (
	ActionDeleteDuplicates      RecommendationAction = "delete_duplicates"
	ActionConsolidateVersions   RecommendationAction = "consolidate_versions"
	ActionReviewForDeletion     RecommendationAction = "review_for_deletion"
	ActionChoosePreferredFormat RecommendationAction = "choose_preferred_format"
	ActionRemoveCopies          RecommendationAction = "remove_copies"
	ActionReviewRelationship    RecommendationAction = "review_relationship"
)

// RecommendationPriority ranks how urgently a recommendation should be acted on.
type RecommendationPriority string

// Available priorities.
const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Recommendation is one actionable suggestion for a duplicate group.
// Recommendations are generated fresh on every detection run and never
// persisted by the core.
type Recommendation struct {
	GroupID    string                 `json:"group_id"`
	Action     RecommendationAction   `json:"action"`
	Method     string                 `json:"method"`
	Priority   RecommendationPriority `json:"priority"`
	Confidence float64                `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`

	// Deletion recommendations.
	KeepDocument    *DocumentSummary  `json:"keep_document,omitempty"`
	DeleteDocuments []DocumentSummary `json:"delete_documents,omitempty"`
	SpaceSaved      int64             `json:"space_saved_bytes,omitempty"`
	SpaceSavedMB    float64           `json:"space_saved_mb,omitempty"`

	// Similarity review recommendations.
	RelationshipType RelationshipType  `json:"relationship_type,omitempty"`
	AvgSimilarity    float64           `json:"avg_similarity,omitempty"`
	Documents        []DocumentSummary `json:"documents,omitempty"`

	// Version consolidation recommendations.
	KeepVersion     *TimelineEntry  `json:"keep_version,omitempty"`
	ArchiveVersions []TimelineEntry `json:"archive_versions,omitempty"`
}

// RecommendationSet groups recommendations by priority tier.
type RecommendationSet struct {
	HighPriority   []Recommendation      `json:"high_priority"`
	MediumPriority []Recommendation      `json:"medium_priority"`
	LowPriority    []Recommendation      `json:"low_priority"`
	Summary        RecommendationSummary `json:"summary"`
}

// All returns every recommendation across the three tiers, high first.
func (s *RecommendationSet) All() []Recommendation {
	out := make([]Recommendation, 0, len(s.HighPriority)+len(s.MediumPriority)+len(s.LowPriority))
	out = append(out, s.HighPriority...)
	out = append(out, s.MediumPriority...)
	out = append(out, s.LowPriority...)
	return out
}

// RecommendationSummary aggregates counts and estimated space savings.
type RecommendationSummary struct {
	TotalRecommendations int     `json:"total_recommendations"`
	HighPriorityCount    int     `json:"high_priority_count"`
	MediumPriorityCount  int     `json:"medium_priority_count"`
	LowPriorityCount     int     `json:"low_priority_count"`
	TotalSpaceSaved      int64   `json:"total_space_saved_bytes"`
	TotalSpaceSavedMB    float64 `json:"total_space_saved_mb"`
	TotalFilesToRemove   int     `json:"total_files_to_remove"`
}
