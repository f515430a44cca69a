package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tau-rai/fintrekapi/internal/models"
)

// TextGenerator produces text from a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator turns metrics and external context into an insight narrative
type Generator struct {
	llm TextGenerator
}

// NewGenerator initializes a new narrative generator
func NewGenerator(llm TextGenerator) *Generator {
	return &Generator{llm: llm}
}

// Generate builds the prompt, invokes the text generation service and parses
// the response into a title and content. Callers must treat any returned
// error as a signal to use FallbackNarrative.
func (g *Generator) Generate(ctx context.Context, metrics *models.FinancialMetrics, ectx models.ExternalContext) (string, string, error) {
	response, err := g.llm.Generate(ctx, BuildPrompt(metrics, ectx))
	if err != nil {
		return "", "", fmt.Errorf("generation failed: %w", err)
	}
	return parseNarrative(response)
}

// BuildPrompt formats metrics and external context into the generation prompt
func BuildPrompt(metrics *models.FinancialMetrics, ectx models.ExternalContext) string {
	return fmt.Sprintf(`Generate a personalized financial insight based on the following metrics:
- Monthly Income: $%s
- Monthly Expenses: $%s
- Net Monthly Income: $%s
- Monthly Savings: $%s
- Monthly Investments: $%s
- Savings Rate: %s%%
- Debt-to-Income Ratio: %s%%

Current economic conditions:
- Inflation Rate: %s
- Stock Market Index: %s

Provide a concise, actionable financial insight that:
1. Highlights the user's current financial health
2. Offers specific, personalized advice
3. Suggests potential improvements considering the current economic conditions
4. Uses a supportive and motivational tone
5. Ensure the title is clear and succinct (under 200 characters)

Put the title on the first line, followed by the insight content.`,
		metrics.TotalIncome.StringFixed(2),
		metrics.TotalExpenses.StringFixed(2),
		metrics.NetIncome.StringFixed(2),
		metrics.TotalSavings.StringFixed(2),
		metrics.TotalInvestments.StringFixed(2),
		metrics.SavingsRate.StringFixed(2),
		metrics.DebtToIncomeRatio.StringFixed(2),
		formatIndicator(ectx.InflationRate, "%.2f%%"),
		formatIndicator(ectx.StockIndex, "%.2f"),
	)
}

// parseNarrative treats the first line of the response as the title and the
// remaining lines as the content
func parseNarrative(response string) (string, string, error) {
	if strings.TrimSpace(response) == "" {
		return "", "", fmt.Errorf("empty generation response")
	}
	lines := strings.Split(response, "\n")
	title := strings.TrimSpace(lines[0])
	content := strings.TrimSpace(strings.Join(lines[1:], "\n"))
	if title == "" || content == "" {
		return "", "", fmt.Errorf("malformed generation response")
	}
	return title, content, nil
}

// formatIndicator renders an external indicator, using "N/A" for the zero
// unavailable sentinel
func formatIndicator(value float64, format string) string {
	if value == 0 {
		return "N/A"
	}
	return fmt.Sprintf(format, value)
}

// FallbackTitle is the title used when personalized generation fails
const FallbackTitle = "Essential Financial Wellness Tips"

// FallbackNarrative returns static educational content used whenever
// personalized generation fails. Available external context values are
// interpolated; unavailable ones render as "N/A". Deterministic, no I/O.
func FallbackNarrative(ectx models.ExternalContext) (string, string) {
	content := fmt.Sprintf(`Key Financial Management Principles:

1. Budgeting Fundamentals
   - Track income and expenses regularly
   - Follow the 50/30/20 rule (needs/wants/savings)
   - Review and adjust budget monthly

2. Smart Saving Strategies
   - Build emergency fund (3-6 months expenses)
   - Automate savings transfers
   - Look for high-yield savings accounts
   - Current inflation rate: %s

3. Debt Management
   - Prioritize high-interest debt repayment
   - Consider debt consolidation options
   - Maintain good credit score

4. Investment Basics
   - Diversify investment portfolio
   - Start retirement planning early
   - Consider low-cost index funds
   - Stock market index: %s

Remember: Financial stability comes from consistent habits and informed decisions.`,
		formatIndicator(ectx.InflationRate, "%.2f%%"),
		formatIndicator(ectx.StockIndex, "%.2f"),
	)
	return FallbackTitle, content
}
