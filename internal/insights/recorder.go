package insights

import (
	"strings"

	"github.com/Tau-rai/fintrekapi/internal/models"
)

// maxTitleLen is the insight title limit after normalization
const maxTitleLen = 200

// InsightWriter persists insight rows
type InsightWriter interface {
	CreateInsight(insight *models.Insight) error
}

// Recorder persists generated insights against a user
type Recorder struct {
	store InsightWriter
}

// NewRecorder initializes a new insight recorder
func NewRecorder(store InsightWriter) *Recorder {
	return &Recorder{store: store}
}

// Record normalizes the title and persists a new insight row
func (r *Recorder) Record(userID int64, title, content string, automated bool) (*models.Insight, error) {
	insight := &models.Insight{
		UserID:      userID,
		Title:       NormalizeTitle(title),
		Content:     content,
		IsAutomated: automated,
	}
	if err := r.store.CreateInsight(insight); err != nil {
		return nil, err
	}
	return insight, nil
}

// NormalizeTitle collapses internal whitespace runs to single spaces, trims
// the ends, and truncates titles over 200 characters to 197 plus an ellipsis
// so the result is never longer than 200. Idempotent for already-normalized
// titles.
func NormalizeTitle(title string) string {
	clean := strings.Join(strings.Fields(title), " ")
	runes := []rune(clean)
	if len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen-3]) + "..."
	}
	return clean
}
