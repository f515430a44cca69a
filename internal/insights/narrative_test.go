package insights

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/shopspring/decimal"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func sampleMetrics() *models.FinancialMetrics {
	return &models.FinancialMetrics{
		Username:          "alice",
		TotalIncome:       decimal.NewFromInt(1000),
		TotalExpenses:     decimal.NewFromInt(400),
		TotalSavings:      decimal.NewFromInt(150),
		TotalInvestments:  decimal.NewFromInt(50),
		SavingsRate:       decimal.NewFromInt(15),
		NetIncome:         decimal.NewFromInt(600),
		DebtToIncomeRatio: decimal.NewFromInt(25),
	}
}

func TestBuildPromptEmbedsMetrics(t *testing.T) {
	prompt := BuildPrompt(sampleMetrics(), models.ExternalContext{InflationRate: 3.2, StockIndex: 5432.1})

	for _, want := range []string{
		"Monthly Income: $1000.00",
		"Monthly Expenses: $400.00",
		"Net Monthly Income: $600.00",
		"Monthly Savings: $150.00",
		"Monthly Investments: $50.00",
		"Savings Rate: 15.00%",
		"Debt-to-Income Ratio: 25.00%",
		"Inflation Rate: 3.20%",
		"Stock Market Index: 5432.10",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptUnavailableContext(t *testing.T) {
	prompt := BuildPrompt(sampleMetrics(), models.ExternalContext{})

	if !strings.Contains(prompt, "Inflation Rate: N/A") {
		t.Error("prompt should mark unavailable inflation rate as N/A")
	}
	if !strings.Contains(prompt, "Stock Market Index: N/A") {
		t.Error("prompt should mark unavailable stock index as N/A")
	}
}

func TestGenerateParsesTitleAndContent(t *testing.T) {
	llm := &fakeLLM{response: "Your Savings Are Growing\nKeep up the good work.\nConsider index funds."}
	generator := NewGenerator(llm)

	title, content, err := generator.Generate(context.Background(), sampleMetrics(), models.ExternalContext{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if title != "Your Savings Are Growing" {
		t.Errorf("title = %q", title)
	}
	if content != "Keep up the good work.\nConsider index funds." {
		t.Errorf("content = %q", content)
	}
}

func TestGenerateMalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"empty response", "", nil},
		{"whitespace only", "  \n \n", nil},
		{"title without content", "Just a title", nil},
		{"service error", "", fmt.Errorf("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewGenerator(&fakeLLM{response: tt.response, err: tt.err})
			_, _, err := generator.Generate(context.Background(), sampleMetrics(), models.ExternalContext{})
			if err == nil {
				t.Error("expected error to trigger fallback")
			}
		})
	}
}

func TestFallbackNarrative(t *testing.T) {
	title, content := FallbackNarrative(models.ExternalContext{InflationRate: 2.5, StockIndex: 4000})

	if title != "Essential Financial Wellness Tips" {
		t.Errorf("title = %q", title)
	}
	if !strings.Contains(content, "Current inflation rate: 2.50%") {
		t.Error("content should interpolate the inflation rate")
	}
	if !strings.Contains(content, "Stock market index: 4000.00") {
		t.Error("content should interpolate the stock index")
	}

	// Deterministic
	title2, content2 := FallbackNarrative(models.ExternalContext{InflationRate: 2.5, StockIndex: 4000})
	if title != title2 || content != content2 {
		t.Error("fallback narrative must be deterministic")
	}
}

func TestFallbackNarrativeUnavailableContext(t *testing.T) {
	_, content := FallbackNarrative(models.ExternalContext{})

	if !strings.Contains(content, "Current inflation rate: N/A") {
		t.Error("unavailable inflation rate should render as N/A")
	}
	if !strings.Contains(content, "Stock market index: N/A") {
		t.Error("unavailable stock index should render as N/A")
	}
}
