// Package summarizer condenses text with extractive heuristics: it
// scores sentences, pulls key points, topics, and entities, and renders
// a summary in one of several styles.
package summarizer

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Style selects how the summary text is rendered.
type Style string

const (
	StyleBulletPoints Style = "bullet_points"
	StyleNarrative    Style = "narrative"
	StyleTechnical    Style = "technical"
	StyleExecutive    Style = "executive"
	StyleTimeline     Style = "timeline"
)

// Length selects the target summary size.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
	// LengthFull skips the length constraint entirely.
	LengthFull Length = "full"
)

// targetWords maps a length to its word budget.
var targetWords = map[Length]int{
	LengthShort:  75,
	LengthMedium: 150,
	LengthLong:   400,
}

// KeyPoint is one extracted sentence with its importance score.
type KeyPoint struct {
	Text              string   `json:"text"`
	ImportanceScore   float64  `json:"importance_score"`
	SupportingDetails []string `json:"supporting_details,omitempty"`
}

// Summary is the outcome of summarizing one piece of content.
type Summary struct {
	ContentID        string         `json:"content_id"`
	OriginalLength   int            `json:"original_length"`
	SummaryText      string         `json:"summary_text"`
	Style            Style          `json:"style"`
	SummaryLength    int            `json:"summary_length"`
	CompressionRatio float64        `json:"compression_ratio"`
	KeyPoints        []KeyPoint     `json:"key_points"`
	Topics           []string       `json:"topics"`
	Entities         []string       `json:"entities"`
	Timestamp        time.Time      `json:"timestamp"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Config sets defaults and extraction knobs for a Summarizer.
type Config struct {
	Style           Style
	Length          Length
	ExtractPoints   bool
	ExtractTopics   bool
	ExtractEntities bool
	// TargetKeyPoints caps how many key points are extracted.
	TargetKeyPoints int
	// MinPointLength drops sentences shorter than this many characters.
	MinPointLength int
}

// DefaultConfig returns the standard summarization settings.
func DefaultConfig() Config {
	return Config{
		Style:           StyleBulletPoints,
		Length:          LengthMedium,
		ExtractPoints:   true,
		ExtractTopics:   true,
		ExtractEntities: true,
		TargetKeyPoints: 5,
		MinPointLength:  20,
	}
}

// Summarizer generates summaries and keeps a history of them.
// Safe for concurrent use.
type Summarizer struct {
	config Config

	mu        sync.RWMutex
	summaries map[string]*Summary

	log *zap.Logger
}

// New creates a Summarizer with the given configuration.
func New(config Config, log *zap.Logger) *Summarizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Summarizer{
		config:    config,
		summaries: make(map[string]*Summary),
		log:       log,
	}
}

// Summarize condenses content in the given style and length. Zero
// values for style or length fall back to the configured defaults.
func (s *Summarizer) Summarize(content string, style Style, length Length, context map[string]any) *Summary {
	if style == "" {
		style = s.config.Style
	}
	if length == "" {
		length = s.config.Length
	}

	summary := &Summary{
		ContentID:      "summary_" + uuid.NewString(),
		OriginalLength: len(content),
		Style:          style,
		Timestamp:      time.Now(),
		Metadata:       context,
	}

	if s.config.ExtractPoints {
		summary.KeyPoints = s.extractKeyPoints(content)
	}
	if s.config.ExtractTopics {
		summary.Topics = extractTopics(content)
	}
	if s.config.ExtractEntities {
		summary.Entities = extractEntities(content)
	}

	switch style {
	case StyleBulletPoints:
		summary.SummaryText = renderBulletPoints(summary.KeyPoints)
	case StyleNarrative:
		summary.SummaryText = renderNarrative(summary.KeyPoints)
	case StyleTechnical:
		summary.SummaryText = renderTechnical(content)
	case StyleExecutive:
		summary.SummaryText = renderExecutive(summary.KeyPoints)
	case StyleTimeline:
		summary.SummaryText = renderTimeline(content)
	}

	summary.SummaryText = constrainLength(summary.SummaryText, length)
	summary.SummaryLength = len(summary.SummaryText)
	if summary.OriginalLength > 0 {
		summary.CompressionRatio = float64(summary.OriginalLength-summary.SummaryLength) / float64(summary.OriginalLength)
	}

	s.mu.Lock()
	s.summaries[summary.ContentID] = summary
	s.mu.Unlock()

	s.log.Debug("summarized content",
		zap.String("content_id", summary.ContentID),
		zap.String("style", string(style)),
		zap.Int("original_length", summary.OriginalLength),
		zap.Int("summary_length", summary.SummaryLength))

	return summary
}

// Batch summarizes several contents with the same style and length.
func (s *Summarizer) Batch(contents []string, style Style, length Length) []*Summary {
	out := make([]*Summary, 0, len(contents))
	for _, content := range contents {
		out = append(out, s.Summarize(content, style, length, nil))
	}
	return out
}

// ExtractBriefing summarizes content as a medium bullet-point briefing.
func (s *Summarizer) ExtractBriefing(content string) *Summary {
	return s.Summarize(content, StyleBulletPoints, LengthMedium, nil)
}

// ExtractReport summarizes content as a long executive report.
func (s *Summarizer) ExtractReport(content string) *Summary {
	return s.Summarize(content, StyleExecutive, LengthLong, nil)
}

// GetSummary returns a recorded summary by content ID.
func (s *Summarizer) GetSummary(contentID string) (*Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[contentID]
	return sum, ok
}

// Summaries returns all recorded summaries.
func (s *Summarizer) Summaries() []*Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Summary, 0, len(s.summaries))
	for _, sum := range s.summaries {
		out = append(out, sum)
	}
	return out
}

// SummaryCount returns the number of recorded summaries.
func (s *Summarizer) SummaryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.summaries)
}

// extractKeyPoints scores every sentence and keeps the top N, restored
// to their original order.
func (s *Summarizer) extractKeyPoints(content string) []KeyPoint {
	sentences := splitSentences(content)

	type scored struct {
		text  string
		score float64
		index int
	}
	var candidates []scored
	for i, sentence := range sentences {
		if len(strings.TrimSpace(sentence)) > s.config.MinPointLength {
			candidates = append(candidates, scored{sentence, scoreSentence(sentence, i), i})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if len(candidates) > s.config.TargetKeyPoints {
		candidates = candidates[:s.config.TargetKeyPoints]
	}
	sort.Slice(candidates, func(a, b int) bool {
		return candidates[a].index < candidates[b].index
	})

	points := make([]KeyPoint, 0, len(candidates))
	for _, c := range candidates {
		points = append(points, KeyPoint{
			Text:              strings.TrimSpace(c.text),
			ImportanceScore:   c.score,
			SupportingDetails: supportingDetails(c.index, sentences),
		})
	}
	return points
}

// importantWords boosts sentences carrying signal vocabulary.
var importantWords = []string{
	"important", "key", "significant", "critical", "essential",
	"major", "notable", "main", "primary", "vital",
	"conclude", "summary", "result", "finding",
}

// scoreSentence rates a sentence by length band, position, signal
// keywords, and lexical diversity. Capped at 1.0.
func scoreSentence(sentence string, position int) float64 {
	score := 0.0

	words := strings.Fields(sentence)
	if len(words) > 5 && len(words) < 30 {
		score += 0.3
	}
	if position < 3 {
		score += 0.2
	}

	sentenceLower := strings.ToLower(sentence)
	for _, w := range importantWords {
		if strings.Contains(sentenceLower, w) {
			score += 0.15
		}
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	if len(words) > 0 && float64(len(unique)) > float64(len(words))*0.6 {
		score += 0.2
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

var topicStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "is": true, "are": true,
	"was": true, "be": true, "been": true, "have": true, "has": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "it": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true, "she": true,
}

// extractTopics returns the five most frequent non-stopword terms,
// ties broken by first appearance.
func extractTopics(content string) []string {
	type topic struct {
		word  string
		count int
		first int
	}
	counts := make(map[string]*topic)
	order := 0
	for _, w := range strings.Fields(strings.ToLower(content)) {
		w = strings.Trim(w, ".,!?;:")
		if len(w) <= 4 || topicStopwords[w] || !isAlpha(w) {
			continue
		}
		if t, ok := counts[w]; ok {
			t.count++
		} else {
			counts[w] = &topic{w, 1, order}
		}
		order++
	}

	topics := make([]*topic, 0, len(counts))
	for _, t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(a, b int) bool {
		if topics[a].count != topics[b].count {
			return topics[a].count > topics[b].count
		}
		return topics[a].first < topics[b].first
	})

	if len(topics) > 5 {
		topics = topics[:5]
	}
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.word
	}
	return out
}

// extractEntities finds capitalized multi-word runs, deduplicated in
// order of first appearance, at most ten.
func extractEntities(content string) []string {
	words := strings.Fields(content)

	var entities []string
	var current []string
	flush := func() {
		if len(current) > 1 {
			entity := strings.Join(current, " ")
			if len(entity) > 4 {
				entities = append(entities, entity)
			}
		}
		current = nil
	}
	for _, word := range words {
		if word[0] >= 'A' && word[0] <= 'Z' {
			current = append(current, strings.TrimRight(word, ".,!?;:"))
		} else {
			flush()
		}
	}
	flush()

	seen := make(map[string]bool)
	var unique []string
	for _, e := range entities {
		if !seen[e] {
			seen[e] = true
			unique = append(unique, e)
		}
	}
	if len(unique) > 10 {
		unique = unique[:10]
	}
	return unique
}

func renderBulletPoints(points []KeyPoint) string {
	if len(points) == 0 {
		return "• No key points identified"
	}
	var b strings.Builder
	for _, p := range points {
		b.WriteString("• ")
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderNarrative(points []KeyPoint) string {
	if len(points) == 0 {
		return "Unable to generate narrative summary."
	}
	sentences := make([]string, len(points))
	for i, p := range points {
		sentences[i] = strings.TrimRight(p.Text, ".")
	}
	return strings.Join(sentences, ". ") + "."
}

// renderTechnical keeps the opening sentence of the first three
// paragraph sections.
func renderTechnical(content string) string {
	sections := strings.Split(content, "\n\n")
	if len(sections) > 3 {
		sections = sections[:3]
	}

	var parts []string
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}
		if sentences := splitSentences(section); len(sentences) > 0 {
			parts = append(parts, sentences[0])
		}
	}
	if len(parts) == 0 {
		if len(content) > 300 {
			return content[:300]
		}
		return content
	}
	return strings.Join(parts, "\n\n")
}

func renderExecutive(points []KeyPoint) string {
	var b strings.Builder
	b.WriteString("Executive Summary:\n\n")
	if len(points) > 0 {
		b.WriteString("Key findings:\n")
		if len(points) > 3 {
			points = points[:3]
		}
		for _, p := range points {
			b.WriteString("- ")
			b.WriteString(p.Text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

var temporalMarkers = []string{
	"first", "initially", "then", "next", "subsequently", "finally",
	"before", "after", "earlier", "later", "meanwhile", "today",
}

// renderTimeline keeps sentences carrying temporal markers, falling
// back to the opening sentences when none are found.
func renderTimeline(content string) string {
	sentences := splitSentences(content)

	var timeline []string
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, marker := range temporalMarkers {
			if strings.Contains(lower, marker) {
				timeline = append(timeline, sentence)
				break
			}
		}
	}
	if len(timeline) == 0 {
		timeline = sentences
		if len(timeline) > 5 {
			timeline = timeline[:5]
		}
	}
	if len(timeline) == 0 {
		if len(content) > 400 {
			return content[:400]
		}
		return content
	}
	return strings.Join(timeline, "\n")
}

// constrainLength truncates text to the word budget for the length,
// snapping back to a sentence boundary when one is near the cut.
func constrainLength(text string, length Length) string {
	if length == LengthFull {
		return text
	}

	target, ok := targetWords[length]
	if !ok {
		target = targetWords[LengthMedium]
	}

	words := strings.Fields(text)
	if len(words) <= target {
		return text
	}

	truncated := strings.Join(words[:target], " ")
	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > int(float64(target)*0.8) {
		truncated = truncated[:lastPeriod+1]
	}
	return truncated
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// supportingDetails returns up to two sentences adjacent to the key
// point in the original content.
func supportingDetails(index int, sentences []string) []string {
	var details []string
	if index > 0 {
		details = append(details, sentences[index-1])
	}
	if index < len(sentences)-1 {
		details = append(details, sentences[index+1])
	}
	return details
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}
