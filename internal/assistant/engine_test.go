package assistant

import (
	"context"
	"strings"
	"testing"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"What is the main theme?", CategoryComprehension},
		{"Explain the second paragraph", CategoryComprehension},
		{"How does the author build tension?", CategoryComprehension},
		{"Why does the protagonist leave?", CategoryComprehension},
		{"Define paradigm", CategoryVocabulary},
		{"meaning of synthesis", CategoryVocabulary},
		{"Give me the definition of inferential", CategoryVocabulary},
		{"Analyze the opening chapter", CategoryAnalysis},
		{"Compare the two arguments", CategoryAnalysis},
		{"Evaluate the evidence presented", CategoryAnalysis},
		{"Tell me about this book", CategoryGeneral},
		{"", CategoryGeneral},
		// First matching rule wins: "what" beats "meaning".
		{"What is the meaning of paradigm?", CategoryComprehension},
		// Case-insensitive.
		{"EXPLAIN THIS", CategoryComprehension},
	}
	for _, tc := range cases {
		if got := Categorize(tc.question); got != tc.want {
			t.Errorf("Categorize(%q) = %s, want %s", tc.question, got, tc.want)
		}
	}
}

func TestAnswerMatchesCategory(t *testing.T) {
	e := NewDeterministic(1)

	question := "Analyze the structure of this essay"
	answer, err := e.Answer(context.Background(), question)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	parts := strings.SplitN(answer, "\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("expected answer + follow-up separated by blank line, got %q", answer)
	}

	pool := answerPools[CategoryAnalysis]
	found := false
	for _, canned := range pool {
		if parts[0] == canned {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("answer body not drawn from the analysis pool: %q", parts[0])
	}

	found = false
	for _, f := range followUps {
		if parts[1] == f {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("follow-up not drawn from the follow-up pool: %q", parts[1])
	}
}

func TestAnswerDeterministicWithSeed(t *testing.T) {
	a1, err := NewDeterministic(42).Answer(context.Background(), "What happened?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	a2, err := NewDeterministic(42).Answer(context.Background(), "What happened?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if a1 != a2 {
		t.Errorf("same seed produced different answers:\n%q\n%q", a1, a2)
	}
}

func TestAnswerCancelled(t *testing.T) {
	e := NewDeterministic(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Answer(ctx, "What happened?"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestAnalyzeTextFindsKnownTerms(t *testing.T) {
	e := NewDeterministic(1)

	text := "The new approach revolutionized the field and shifted the dominant paradigm."
	analysis, err := e.AnalyzeText(context.Background(), text)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if len(analysis.KeyTerms) != 2 {
		t.Fatalf("expected 2 key terms, got %d", len(analysis.KeyTerms))
	}
	words := []string{analysis.KeyTerms[0].Word, analysis.KeyTerms[1].Word}
	if words[0] != "revolutionized" || words[1] != "paradigm" {
		t.Errorf("key terms = %v", words)
	}
	if analysis.WordCount != len(strings.Fields(text)) {
		t.Errorf("word count = %d", analysis.WordCount)
	}
	if analysis.Complexity < 3 || analysis.Complexity > 7 {
		t.Errorf("complexity = %d, want 3..7", analysis.Complexity)
	}
}

func TestAnalyzeTextFallbackTerms(t *testing.T) {
	e := NewDeterministic(1)

	analysis, err := e.AnalyzeText(context.Background(), "plain everyday words only")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if len(analysis.KeyTerms) != 2 {
		t.Fatalf("expected 2 fallback terms, got %d", len(analysis.KeyTerms))
	}
	if analysis.KeyTerms[0].Word != knownVocabulary[0].Word {
		t.Errorf("fallback term = %q, want %q", analysis.KeyTerms[0].Word, knownVocabulary[0].Word)
	}
}

func TestSummarizeChapter(t *testing.T) {
	e := NewDeterministic(1)

	content := strings.Repeat("word ", 450)
	summary, err := e.SummarizeChapter(context.Background(), content)
	if err != nil {
		t.Fatalf("SummarizeChapter: %v", err)
	}

	if summary.WordCount != 450 {
		t.Errorf("word count = %d, want 450", summary.WordCount)
	}
	// ceil(450/200) = 3
	if summary.ReadMinutes != 3 {
		t.Errorf("read minutes = %d, want 3", summary.ReadMinutes)
	}
	if len(summary.KeyPoints) != 3 {
		t.Errorf("expected 3 key points, got %d", len(summary.KeyPoints))
	}
	if summary.Summary == "" || summary.Difficulty == "" {
		t.Errorf("incomplete summary: %+v", summary)
	}
}

func TestSummarizeChapterMinimumReadTime(t *testing.T) {
	e := NewDeterministic(1)

	summary, err := e.SummarizeChapter(context.Background(), "just a few words")
	if err != nil {
		t.Fatalf("SummarizeChapter: %v", err)
	}
	if summary.ReadMinutes != 1 {
		t.Errorf("read minutes = %d, want minimum 1", summary.ReadMinutes)
	}
}
