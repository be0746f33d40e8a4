package critic

import (
	"strings"
	"testing"
)

func TestReviewCleanContent(t *testing.T) {
	c := New(DefaultConfig(), nil)

	content := "The ingestion pipeline batches documents before indexing. " +
		"Background context is recorded for each batch. " +
		"Each batch is verified against the source checksum."
	review := c.Review(content, "text", nil, []string{"doc_1", "doc_2"})

	if !review.IsApproved {
		t.Errorf("clean content not approved: score=%.2f issues=%+v",
			review.OverallQualityScore, review.Issues)
	}
	if !strings.HasPrefix(review.ReviewSummary, "Approved.") {
		t.Errorf("summary = %q, want approval summary", review.ReviewSummary)
	}
	if !strings.HasPrefix(review.ContentID, "review_") {
		t.Errorf("content ID = %q, want review_ prefix", review.ContentID)
	}
}

func TestReviewFlagsMissingSources(t *testing.T) {
	c := New(DefaultConfig(), nil)

	review := c.Review(strings.Repeat("Statement without citation. ", 10), "text", nil, nil)

	found := false
	for _, issue := range review.Issues {
		if issue.Category == CategoryAccuracy && issue.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("no accuracy warning for unsourced content: %+v", review.Issues)
	}
}

func TestReviewFlagsBriefContent(t *testing.T) {
	c := New(DefaultConfig(), nil)

	review := c.Review("Too short.", "text", nil, []string{"doc_1"})

	found := false
	for _, issue := range review.Issues {
		if issue.Category == CategoryCompleteness {
			found = true
		}
	}
	if !found {
		t.Errorf("no completeness issue for brief content: %+v", review.Issues)
	}
}

func TestReviewRelevanceCheck(t *testing.T) {
	c := New(DefaultConfig(), nil)

	context := map[string]any{"goal": "database migration rollback procedure"}
	review := c.Review("Cats enjoy sitting near warm windows in the afternoon sun.",
		"text", context, []string{"doc_1", "doc_2"})

	found := false
	for _, issue := range review.Issues {
		if issue.Category == CategoryRelevance {
			found = true
		}
	}
	if !found {
		t.Errorf("off-topic content not flagged for relevance: %+v", review.Issues)
	}
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name   string
		issues []Issue
		want   float64
	}{
		{"no issues", nil, 1.0},
		{"one warning", []Issue{{Severity: SeverityWarning, Confidence: 1.0}}, 0.95},
		{"one critical", []Issue{{Severity: SeverityCritical, Confidence: 1.0}}, 0.75},
		{"mixed", []Issue{
			{Severity: SeverityError, Confidence: 1.0},
			{Severity: SeverityInfo, Confidence: 1.0},
		}, 0.84},
		{"confidence penalty", []Issue{{Severity: SeverityInfo, Confidence: 0.5}}, 0.98},
		{"clamped at zero", []Issue{
			{Severity: SeverityCritical, Confidence: 1.0},
			{Severity: SeverityCritical, Confidence: 1.0},
			{Severity: SeverityCritical, Confidence: 1.0},
			{Severity: SeverityCritical, Confidence: 1.0},
			{Severity: SeverityCritical, Confidence: 1.0},
		}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := qualityScore(tt.issues)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("qualityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigDisablesChecks(t *testing.T) {
	config := Config{MinQualityScore: 0.7}
	c := New(config, nil)

	// All checks off: even empty content reviews clean.
	review := c.Review("", "text", nil, nil)
	if len(review.Issues) != 0 {
		t.Errorf("issues with all checks disabled: %+v", review.Issues)
	}
	if review.OverallQualityScore != 1.0 {
		t.Errorf("score = %v, want 1.0", review.OverallQualityScore)
	}
}

func TestReviewHistory(t *testing.T) {
	c := New(DefaultConfig(), nil)

	good := c.Review("Background context covered here with verified sources on record.",
		"text", nil, []string{"a", "b"})
	bad := c.Review("x", "text", nil, nil)

	if c.ReviewCount() != 2 {
		t.Fatalf("ReviewCount = %d, want 2", c.ReviewCount())
	}
	if _, ok := c.GetReview(good.ContentID); !ok {
		t.Error("GetReview lost recorded review")
	}
	if _, ok := c.GetReview("review_nope"); ok {
		t.Error("GetReview found unknown ID")
	}

	for _, r := range c.ApprovedReviews() {
		if !r.IsApproved {
			t.Error("ApprovedReviews returned unapproved review")
		}
	}
	for _, r := range c.FailedReviews() {
		if r.IsApproved {
			t.Error("FailedReviews returned approved review")
		}
	}

	suggestions := c.SuggestImprovements(bad.ContentID)
	if len(suggestions) == 0 {
		t.Error("no suggestions for review with issues")
	}
	if got := c.SuggestImprovements("review_nope"); got != nil {
		t.Errorf("suggestions for unknown ID = %v, want nil", got)
	}
}
