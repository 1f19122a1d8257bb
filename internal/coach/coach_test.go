package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
)

type fakeProfiles struct {
	err error
}

func (f fakeProfiles) ProfileMetrics(ctx context.Context, userID int64) (*models.ProfileMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	avg := 310.0
	return &models.ProfileMetrics{
		Reaction: models.ReactionMetrics{AvgReactionMs: &avg},
		Radar:    models.Radar{ProcessingSpeed: 82, WorkingMemory: 12},
	}, nil
}

func (f fakeProfiles) Insights(ctx context.Context, userID int64) (*models.Insights, error) {
	return &models.Insights{
		Reaction: models.ReactionInsights{Weaknesses: []string{"Improve reaction speed under pressure"}},
		Math: models.MathInsights{Round1: models.MathRoundInsights{Averages: []models.CategoryTime{
			{Type: "+", AvgTimeS: 1.2}, {Type: "x", AvgTimeS: 3.4},
		}}},
	}, nil
}

type cannedLLM struct {
	content string
	prompt  string
}

func (c *cannedLLM) Model() string { return "canned" }

func (c *cannedLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	c.prompt = userPrompt
	return &LLMResponse{Content: c.content}, nil
}

func TestParseTips(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"fenced", "```json\n{\"tips\":[{\"axis\":\"accuracy\",\"title\":\"Slow down\",\"detail\":\"Aim before you click.\"}]}\n```", 1, false},
		{"bare", `{"tips":[{"axis":"engagement","title":"Daily","detail":"Play a little every day."}]}`, 1, false},
		{"truncated to three", `{"tips":[` +
			strings.Repeat(`{"axis":"accuracy","title":"t","detail":"a long enough detail"},`, 4) +
			`{"axis":"accuracy","title":"t","detail":"a long enough detail"}]}`, 3, false},
		{"unknown axis", `{"tips":[{"axis":"luck","title":"t","detail":"a long enough detail"}]}`, 0, true},
		{"empty", `{"tips":[]}`, 0, true},
		{"not json", "here are some tips", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTips(tt.body)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: ParseTips err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d tips, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestRepetitive(t *testing.T) {
	same := models.CoachTip{Detail: "practice reaction rounds every morning before work"}
	other := models.CoachTip{Detail: "group memory cells into small shapes"}
	if !repetitive([]models.CoachTip{same, same}) {
		t.Error("identical tips should be repetitive")
	}
	if repetitive([]models.CoachTip{same, other}) {
		t.Error("distinct tips should not be repetitive")
	}
}

func TestBuildUserPrompt(t *testing.T) {
	p := fakeProfiles{}
	m, _ := p.ProfileMetrics(context.Background(), 1)
	ins, _ := p.Insights(context.Background(), 1)

	prompt := BuildUserPrompt(m, ins)
	for _, want := range []string{
		"processing_speed: 82",
		"average reaction: 310.0 ms",
		"best total: no data",
		"Improve reaction speed under pressure",
		"Slowest arithmetic category: x (3.4 s)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestTipsWithMock(t *testing.T) {
	s := NewService(NewMockClient(), fakeProfiles{}, logger.Nop())
	resp, err := s.Tips(context.Background(), 1)
	if err != nil {
		t.Fatalf("Tips: %v", err)
	}
	if len(resp.Tips) != 3 || resp.Model != "mock" {
		t.Errorf("resp = %+v, want 3 mock tips", resp)
	}
}

func TestTipsErrors(t *testing.T) {
	disabled := NewService(nil, fakeProfiles{}, logger.Nop())
	if _, err := disabled.Tips(context.Background(), 1); !errors.Is(err, ErrDisabled) {
		t.Errorf("disabled Tips err = %v, want ErrDisabled", err)
	}

	failing := NewService(NewMockClient(), fakeProfiles{err: errors.New("db down")}, logger.Nop())
	if _, err := failing.Tips(context.Background(), 1); err == nil {
		t.Error("expected error when profile load fails")
	}

	garbage := NewService(&cannedLLM{content: "no json here"}, fakeProfiles{}, logger.Nop())
	if _, err := garbage.Tips(context.Background(), 1); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetMyCoach(t *testing.T) {
	asUser := func(req *http.Request) *http.Request {
		return req.WithContext(context.WithValue(req.Context(), "user_id", int64(4)))
	}

	rec := httptest.NewRecorder()
	NewHandler(NewService(nil, fakeProfiles{}, logger.Nop())).
		GetMyCoach(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/profile/me/coach", nil)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled status = %d, want 503", rec.Code)
	}

	llm := &cannedLLM{content: `{"tips":[{"axis":"working_memory","title":"Chunk","detail":"Group cells into pairs."}]}`}
	rec = httptest.NewRecorder()
	NewHandler(NewService(llm, fakeProfiles{}, logger.Nop())).
		GetMyCoach(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/profile/me/coach", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.CoachResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Model != "canned" || len(resp.Tips) != 1 || resp.Tips[0].Axis != "working_memory" {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.Contains(llm.prompt, "working_memory: 12") {
		t.Error("prompt should carry the radar")
	}
}
