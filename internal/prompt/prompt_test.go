package prompt

import (
	"errors"
	"strings"
	"testing"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
)

func TestRenderSubstitutesBothTokenForms(t *testing.T) {
	tmpl := "Position: {{{jobPosition}}}; Conversation: {{conversation}}; Again: {{{jobPosition}}}"
	got := Render(tmpl, map[string]string{
		"jobPosition":  "Backend Engineer",
		"conversation": "[]",
	})
	want := "Position: Backend Engineer; Conversation: []; Again: Backend Engineer"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRenderLeavesUnknownTokens(t *testing.T) {
	got := Render("Hello {{{name}}}", map[string]string{"other": "x"})
	if got != "Hello {{{name}}}" {
		t.Fatalf("Render = %q", got)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"json tag":      {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"uppercase tag": {"```JSON\n{\"a\":1}\n```", `{"a":1}`},
		"no tag":        {"```\n{\"a\":1}\n```", `{"a":1}`},
		"no fence":      {"  {\"a\":1}  ", `{"a":1}`},
		"prose around":  {"Here you go:\n```json\n{\"a\":1}\n```\nEnjoy!", `{"a":1}`},
		"brace on open": {"```{\"a\":1}\n```", `{"a":1}`},
	}
	for name, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("%s: StripFences = %q, want %q", name, got, tc.want)
		}
	}
}

func TestParseQuestions(t *testing.T) {
	raw := "```json\n" + `{"interviewQuestions":[{"question":"Q1","type":"Technical"}]}` + "\n```"
	qs, err := ParseQuestions(raw)
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(qs) != 1 || qs[0].Text != "Q1" || qs[0].Category != "Technical" {
		t.Fatalf("parsed = %+v", qs)
	}
}

func TestParseQuestionsRejectsEmptyAndGarbage(t *testing.T) {
	if _, err := ParseQuestions(`{"interviewQuestions":[]}`); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("empty list: expected ErrParse, got %v", err)
	}
	if _, err := ParseQuestions("Sorry, I can't."); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("garbage: expected ErrParse, got %v", err)
	}
}

func TestParseFeedback(t *testing.T) {
	raw := `{"rating":{"technicalSkills":7,"communication":8,"problemSolving":6,"experience":7},
		"summary":"Solid.","Recommendation":"Hire","RecommendationMsg":"Go ahead."}`
	ratings, summary, rec, msg, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("ParseFeedback: %v", err)
	}
	if ratings.Communication != 8 || summary != "Solid." || rec != model.RecommendationHire || msg != "Go ahead." {
		t.Fatalf("parsed: %+v %q %q %q", ratings, summary, rec, msg)
	}
}

func TestParseFeedbackClampsAndNormalizes(t *testing.T) {
	raw := `{"rating":{"technicalSkills":99,"communication":-3,"problemSolving":5,"experience":5},
		"summary":"","Recommendation":"Maybe?"}`
	ratings, _, rec, _, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("ParseFeedback: %v", err)
	}
	if ratings.TechnicalSkills != 10 || ratings.Communication != 1 {
		t.Fatalf("clamping failed: %+v", ratings)
	}
	if rec != model.RecommendationNotAvailable {
		t.Fatalf("recommendation = %q", rec)
	}
}

func TestQuestionsPromptCarriesDurationBands(t *testing.T) {
	// The generation prompt encodes the count bands the review flow warns
	// about; keep them in sync.
	for _, band := range []string{"5 minutes: 2-3", "15 minutes: 4-6", "30 minutes: 6-8", "45 minutes: 8-10", "60 minutes: 10-12"} {
		if !strings.Contains(Questions, band) {
			t.Fatalf("questions prompt missing band %q", band)
		}
	}
}
