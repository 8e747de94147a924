// Package assistant simulates AI answering, text analysis, and chapter
// summarization with canned responses behind randomized delays. There is no
// model behind it; the delay and the response selection are the only moving
// parts, and both are injectable for tests.
package assistant

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Engine produces simulated assistant output. The zero value is not usable;
// construct with New or NewDeterministic.
type Engine struct {
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns an engine with realistic randomized delays.
func New() *Engine {
	return &Engine{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: sleepCtx,
	}
}

// NewDeterministic returns an engine with a fixed seed and no delay, for
// tests and scripted demos.
func NewDeterministic(seed int64) *Engine {
	return &Engine{
		rng:   rand.New(rand.NewSource(seed)),
		sleep: func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Answer returns a canned answer for the question's category plus a follow-up
// suggestion, after a 1.5–3.5s simulated delay.
func (e *Engine) Answer(ctx context.Context, question string) (string, error) {
	delay := 1500*time.Millisecond + time.Duration(e.rng.Intn(2000))*time.Millisecond
	if err := e.sleep(ctx, delay); err != nil {
		return "", err
	}

	pool := answerPools[Categorize(question)]
	base := pool[e.rng.Intn(len(pool))]
	followUp := followUps[e.rng.Intn(len(followUps))]
	return base + "\n\n" + followUp, nil
}

// TextAnalysis is the simulated analysis of a text selection.
type TextAnalysis struct {
	Complexity int              `json:"complexity"` // 3..7
	Sentiment  string           `json:"sentiment"`
	KeyTerms   []VocabularyTerm `json:"key_terms"`
	WordCount  int              `json:"word_count"`
}

// AnalyzeText returns a simulated analysis after a 1.5s delay. Key terms are
// vocabulary words actually present in the text; when none match, the first
// entries of the known vocabulary stand in.
func (e *Engine) AnalyzeText(ctx context.Context, text string) (TextAnalysis, error) {
	if err := e.sleep(ctx, 1500*time.Millisecond); err != nil {
		return TextAnalysis{}, err
	}

	lower := strings.ToLower(text)
	var found []VocabularyTerm
	for _, term := range knownVocabulary {
		if strings.Contains(lower, term.Word) {
			found = append(found, term)
		}
	}

	keyTerms := found
	if len(keyTerms) == 0 {
		keyTerms = knownVocabulary[:2]
	} else if len(keyTerms) > 2 {
		keyTerms = keyTerms[:2]
	}

	return TextAnalysis{
		Complexity: 3 + e.rng.Intn(5),
		Sentiment:  sentiments[e.rng.Intn(len(sentiments))],
		KeyTerms:   keyTerms,
		WordCount:  len(strings.Fields(text)),
	}, nil
}

// ChapterSummary is the simulated summary of a chapter or document section.
type ChapterSummary struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	WordCount   int      `json:"word_count"`
	ReadMinutes int      `json:"read_minutes"`
	Difficulty  string   `json:"difficulty"`
}

// summaryReadingSpeed is the words-per-minute assumption for the estimated
// read time in summaries.
const summaryReadingSpeed = 200

// SummarizeChapter returns a simulated summary after a 2–3s delay.
func (e *Engine) SummarizeChapter(ctx context.Context, content string) (ChapterSummary, error) {
	delay := 2000*time.Millisecond + time.Duration(e.rng.Intn(1000))*time.Millisecond
	if err := e.sleep(ctx, delay); err != nil {
		return ChapterSummary{}, err
	}

	words := len(strings.Fields(content))
	readMinutes := (words + summaryReadingSpeed - 1) / summaryReadingSpeed
	if readMinutes < 1 {
		readMinutes = 1
	}

	return ChapterSummary{
		Summary:     summaryPool[e.rng.Intn(len(summaryPool))],
		KeyPoints:   keyPointPool[e.rng.Intn(len(keyPointPool))],
		WordCount:   words,
		ReadMinutes: readMinutes,
		Difficulty:  difficulties[e.rng.Intn(len(difficulties))],
	}, nil
}
