// Package critic scores content quality with cheap lexical heuristics
// and records the resulting reviews. Reviews are advisory: callers
// decide what, if anything, to do with a failed approval.
package critic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity of a detected issue.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Category of a detected issue.
type Category string

const (
	CategoryAccuracy     Category = "accuracy"
	CategoryCompleteness Category = "completeness"
	CategoryClarity      Category = "clarity"
	CategoryRelevance    Category = "relevance"
	CategoryConsistency  Category = "consistency"
	CategoryQuality      Category = "quality"
	CategoryFormatting   Category = "formatting"
	CategoryGrammar      Category = "grammar"
)

// Issue is a single detected problem with an optional suggested fix.
type Issue struct {
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Description  string   `json:"description"`
	Location     string   `json:"location,omitempty"`
	Suggestion   string   `json:"suggestion,omitempty"`
	AffectedText string   `json:"affected_text,omitempty"`
	// Confidence in the detection, 0 to 1.
	Confidence float64 `json:"confidence"`
}

// Review is the outcome of reviewing one piece of content.
type Review struct {
	ContentID           string    `json:"content_id"`
	Timestamp           time.Time `json:"timestamp"`
	OverallQualityScore float64   `json:"overall_quality_score"`
	Issues              []Issue   `json:"issues"`
	Recommendations     []string  `json:"recommendations"`
	IsApproved          bool      `json:"is_approved"`
	ReviewSummary       string    `json:"review_summary"`
}

// Config selects which checks run and sets the approval thresholds.
type Config struct {
	CheckAccuracy     bool
	CheckCompleteness bool
	CheckClarity      bool
	CheckRelevance    bool
	CheckConsistency  bool
	CheckFormatting   bool
	// Grammar checking is off by default; it is the noisiest check.
	CheckGrammar       bool
	RequireSources     bool
	MinQualityScore    float64
	MaxErrorsAllowed   int
	MaxWarningsAllowed int
}

// DefaultConfig returns the standard check selection and thresholds.
func DefaultConfig() Config {
	return Config{
		CheckAccuracy:      true,
		CheckCompleteness:  true,
		CheckClarity:       true,
		CheckRelevance:     true,
		CheckConsistency:   true,
		CheckFormatting:    true,
		CheckGrammar:       false,
		RequireSources:     true,
		MinQualityScore:    0.7,
		MaxErrorsAllowed:   3,
		MaxWarningsAllowed: 5,
	}
}

// Critic reviews content and keeps a history of reviews.
// Safe for concurrent use.
type Critic struct {
	config Config

	mu      sync.RWMutex
	reviews map[string]*Review

	log *zap.Logger
}

// New creates a Critic with the given configuration.
func New(config Config, log *zap.Logger) *Critic {
	if log == nil {
		log = zap.NewNop()
	}
	return &Critic{
		config:  config,
		reviews: make(map[string]*Review),
		log:     log,
	}
}

// Review runs the configured checks against content and records the
// result. contentType describes what is being reviewed (text, summary,
// code). context may carry a "goal" key used by the relevance check.
func (c *Critic) Review(content, contentType string, context map[string]any, sourceReferences []string) *Review {
	review := &Review{
		ContentID: "review_" + uuid.NewString(),
		Timestamp: time.Now(),
	}

	if c.config.CheckAccuracy {
		review.Issues = append(review.Issues, c.checkAccuracy(content, sourceReferences)...)
	}
	if c.config.CheckCompleteness {
		review.Issues = append(review.Issues, c.checkCompleteness(content, context)...)
	}
	if c.config.CheckClarity {
		review.Issues = append(review.Issues, c.checkClarity(content)...)
	}
	if c.config.CheckRelevance {
		review.Issues = append(review.Issues, c.checkRelevance(content, context)...)
	}
	if c.config.CheckConsistency {
		review.Issues = append(review.Issues, checkConsistency(content)...)
	}
	if c.config.CheckFormatting {
		review.Issues = append(review.Issues, checkFormatting(content)...)
	}
	if c.config.CheckGrammar {
		review.Issues = append(review.Issues, checkGrammar(content)...)
	}

	review.OverallQualityScore = qualityScore(review.Issues)

	errorCount := countSeverity(review.Issues, SeverityError)
	warningCount := countSeverity(review.Issues, SeverityWarning)
	review.IsApproved = review.OverallQualityScore >= c.config.MinQualityScore &&
		errorCount <= c.config.MaxErrorsAllowed &&
		warningCount <= c.config.MaxWarningsAllowed

	if review.IsApproved {
		review.ReviewSummary = fmt.Sprintf("Approved. Quality score: %.1f%%.", review.OverallQualityScore*100)
	} else {
		review.ReviewSummary = fmt.Sprintf("Needs revision. Quality score: %.1f%%.", review.OverallQualityScore*100)
	}

	c.mu.Lock()
	c.reviews[review.ContentID] = review
	c.mu.Unlock()

	c.log.Debug("reviewed content",
		zap.String("content_id", review.ContentID),
		zap.String("content_type", contentType),
		zap.Float64("score", review.OverallQualityScore),
		zap.Bool("approved", review.IsApproved))

	return review
}

func (c *Critic) checkAccuracy(content string, sourceReferences []string) []Issue {
	var issues []Issue

	if c.config.RequireSources && len(sourceReferences) == 0 {
		issues = append(issues, Issue{
			Category:    CategoryAccuracy,
			Severity:    SeverityWarning,
			Description: "No source references provided for content claims",
			Suggestion:  "Add references to source documents that support the claims",
			Confidence:  0.9,
		})
	}
	if len(content) > 100 && len(sourceReferences) < 2 {
		issues = append(issues, Issue{
			Category:    CategoryAccuracy,
			Severity:    SeverityWarning,
			Description: "Content is substantial but has few source references",
			Suggestion:  "Add more source citations to support statements",
			Confidence:  0.7,
		})
	}
	return issues
}

func (c *Critic) checkCompleteness(content string, context map[string]any) []Issue {
	var issues []Issue

	if len(content) < 100 {
		issues = append(issues, Issue{
			Category:    CategoryCompleteness,
			Severity:    SeverityWarning,
			Description: "Content appears to be very brief",
			Suggestion:  "Expand with more detail and explanations",
			Confidence:  0.6,
		})
	}

	contentLower := strings.ToLower(content)
	contentType, _ := context["content_type"].(string)

	var missing []string
	if !strings.Contains(strings.ToLower(contentType), "summary") {
		if !strings.Contains(contentLower, "context") && !strings.Contains(contentLower, "background") {
			missing = append(missing, "background context")
		}
	}
	if !strings.Contains(contentLower, "conclusion") && len(content) > 500 {
		missing = append(missing, "conclusion")
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Category:    CategoryCompleteness,
			Severity:    SeverityInfo,
			Description: "Missing sections: " + strings.Join(missing, ", "),
			Suggestion:  "Consider adding the missing sections for completeness",
			Confidence:  0.7,
		})
	}
	return issues
}

func (c *Critic) checkClarity(content string) []Issue {
	var issues []Issue

	sentences := strings.Split(content, ".")
	var longSentences []string
	for _, s := range sentences {
		if len(strings.Fields(s)) > 25 {
			longSentences = append(longSentences, s)
		}
	}
	if float64(len(longSentences)) > float64(len(sentences))*0.3 {
		affected := longSentences[0]
		if len(affected) > 100 {
			affected = affected[:100]
		}
		issues = append(issues, Issue{
			Category:     CategoryClarity,
			Severity:     SeverityWarning,
			Description:  "Many sentences are overly long and complex",
			AffectedText: affected,
			Suggestion:   "Break long sentences into shorter, simpler ones",
			Confidence:   0.7,
		})
	}

	if terms := technicalTerms(content); len(terms) > 0 {
		shown := terms
		if len(shown) > 3 {
			shown = shown[:3]
		}
		issues = append(issues, Issue{
			Category:    CategoryClarity,
			Severity:    SeverityInfo,
			Description: "Technical terms used: " + strings.Join(shown, ", "),
			Suggestion:  "Ensure technical terms are explained or accessible to audience",
			Confidence:  0.6,
		})
	}
	return issues
}

func (c *Critic) checkRelevance(content string, context map[string]any) []Issue {
	goal, _ := context["goal"].(string)
	if goal == "" {
		return nil
	}

	goalWords := wordSet(goal)
	contentWords := wordSet(content)
	overlap := 0
	for w := range goalWords {
		if contentWords[w] {
			overlap++
		}
	}
	if float64(overlap) < float64(len(goalWords))*0.3 {
		return []Issue{{
			Category:    CategoryRelevance,
			Severity:    SeverityWarning,
			Description: "Content may not fully address the stated goal",
			Suggestion:  "Ensure content directly addresses: " + goal,
			Confidence:  0.6,
		}}
	}
	return nil
}

func checkConsistency(content string) []Issue {
	contentLower := strings.ToLower(content)
	if strings.Contains(contentLower, "however") || strings.Contains(contentLower, "but") {
		return []Issue{{
			Category:    CategoryConsistency,
			Severity:    SeverityInfo,
			Description: "Content contains contrasting statements",
			Suggestion:  "Ensure contrasting points are clearly explained and justified",
			Confidence:  0.5,
		}}
	}
	return nil
}

func checkFormatting(content string) []Issue {
	var issues []Issue

	lines := strings.Split(content, "\n")
	if len(lines) > 5 {
		veryLong := 0
		for _, l := range lines {
			if len(l) > 150 {
				veryLong++
			}
		}
		if float64(veryLong) > float64(len(lines))*0.5 {
			issues = append(issues, Issue{
				Category:    CategoryFormatting,
				Severity:    SeverityInfo,
				Description: "Lines are very long and difficult to read",
				Suggestion:  "Add line breaks and formatting to improve readability",
				Confidence:  0.6,
			})
		}
	}

	if strings.Contains(content, "  ") {
		issues = append(issues, Issue{
			Category:    CategoryFormatting,
			Severity:    SeverityWarning,
			Description: "Multiple consecutive spaces found",
			Suggestion:  "Remove extra spaces for cleaner formatting",
			Confidence:  0.9,
		})
	}
	return issues
}

func checkGrammar(content string) []Issue {
	type mistake struct {
		pattern    string
		correction string
		tip        string
	}
	mistakes := []mistake{
		{"it's", "its", "Use 'its' for possessive"},
		{"there", "their/they're", "Check usage of there/their/they're"},
		{"alot", "a lot", "Use 'a lot' (two words)"},
	}

	contentLower := strings.ToLower(content)
	var issues []Issue
	for _, m := range mistakes {
		if strings.Contains(contentLower, m.pattern) {
			issues = append(issues, Issue{
				Category:    CategoryGrammar,
				Severity:    SeverityWarning,
				Description: "Potential grammar issue: " + m.pattern,
				Suggestion:  fmt.Sprintf("%s. Consider: %s", m.tip, m.correction),
				Confidence:  0.6,
			})
		}
	}
	return issues
}

// qualityScore deducts per-issue penalties from a perfect 1.0, weighted
// by severity and detection confidence, and clamps to [0, 1].
func qualityScore(issues []Issue) float64 {
	if len(issues) == 0 {
		return 1.0
	}

	score := 1.0
	score -= float64(countSeverity(issues, SeverityCritical)) * 0.25
	score -= float64(countSeverity(issues, SeverityError)) * 0.15
	score -= float64(countSeverity(issues, SeverityWarning)) * 0.05
	score -= float64(countSeverity(issues, SeverityInfo)) * 0.01

	for _, issue := range issues {
		score -= (1 - issue.Confidence) * 0.02
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func countSeverity(issues []Issue, severity Severity) int {
	n := 0
	for _, i := range issues {
		if i.Severity == severity {
			n++
		}
	}
	return n
}

// technicalTerms picks out long capitalized words as likely jargon,
// deduplicated, at most five.
func technicalTerms(content string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, word := range strings.Fields(content) {
		if len(terms) == 5 {
			break
		}
		if len(word) > 5 && word[0] >= 'A' && word[0] <= 'Z' && !seen[word] {
			seen[word] = true
			terms = append(terms, word)
		}
	}
	sort.Strings(terms)
	return terms
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// GetReview returns a recorded review by content ID.
func (c *Critic) GetReview(contentID string) (*Review, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reviews[contentID]
	return r, ok
}

// Reviews returns all recorded reviews.
func (c *Critic) Reviews() []*Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Review, 0, len(c.reviews))
	for _, r := range c.reviews {
		out = append(out, r)
	}
	return out
}

// ApprovedReviews returns the reviews that passed approval.
func (c *Critic) ApprovedReviews() []*Review {
	return c.filter(true)
}

// FailedReviews returns the reviews that failed approval.
func (c *Critic) FailedReviews() []*Review {
	return c.filter(false)
}

func (c *Critic) filter(approved bool) []*Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Review
	for _, r := range c.reviews {
		if r.IsApproved == approved {
			out = append(out, r)
		}
	}
	return out
}

// SuggestImprovements collects the recommendations plus per-issue
// suggestions for a recorded review. Empty for an unknown ID.
func (c *Critic) SuggestImprovements(contentID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	review, ok := c.reviews[contentID]
	if !ok {
		return nil
	}

	suggestions := append([]string(nil), review.Recommendations...)
	for _, issue := range review.Issues {
		if issue.Suggestion != "" {
			suggestions = append(suggestions, fmt.Sprintf("[%s] %s", issue.Category, issue.Suggestion))
		}
	}
	return suggestions
}

// ReviewCount returns the number of recorded reviews.
func (c *Critic) ReviewCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reviews)
}
