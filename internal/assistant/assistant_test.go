package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

func TestUserPrompt(t *testing.T) {
	pc := PayrollContext{
		CompanyName: "Acme",
		Employees: []EmployeeSnapshot{
			{Name: "Alice", Salary: decimal.RequireFromString("100"), Currency: "cUSD"},
			{Name: "Bob", Salary: decimal.RequireFromString("50.5"), Currency: "cEUR"},
			{Name: "Carol", Salary: decimal.RequireFromString("20"), Currency: "cUSD"},
		},
	}

	got := UserPrompt("who is paid most?", pc)
	for _, want := range []string{
		`User message: "who is paid most?"`,
		"- Company: Acme",
		"- Active employees: 3",
		"- Monthly payroll by currency: cUSD: 120.00, cEUR: 50.50",
		"- Employees: Alice (100.00 cUSD), Bob (50.50 cEUR), Carol (20.00 cUSD)",
		"Keep it under 120 words.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestUserPrompt_Empty(t *testing.T) {
	got := UserPrompt("hi", PayrollContext{})
	if !strings.Contains(got, "Unknown company") || !strings.Contains(got, "No payroll data available yet.") || !strings.Contains(got, "- Employees: none") {
		t.Fatalf("unexpected empty prompt:\n%s", got)
	}
}

func TestReply(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  Run /pay.  "}}},
		})
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL+"/v1", "test-model")
	reply, err := c.Reply(context.Background(), "how do I pay?", PayrollContext{CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("Reply returned error: %v", err)
	}
	if reply != "Run /pay." {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != maxTokens {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
}
