package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ultrascore/backend/internal/domain"
)

var categoryColors = map[domain.ScoreCategory]lipgloss.Color{
	domain.ScoreExcellent: lipgloss.Color("#2E7D32"),
	domain.ScoreGood:      lipgloss.Color("#8BC34A"),
	domain.ScoreModerate:  lipgloss.Color("#F9A825"),
	domain.ScoreLimit:     lipgloss.Color("#EF6C00"),
	domain.ScoreAvoid:     lipgloss.Color("#C62828"),
}

var (
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
	plusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	minusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828"))
)

// renderScore draws a score card for terminal output
func renderScore(score *domain.UltraScore) string {
	color := categoryColors[score.Category]

	name := score.Name()
	if name == "" {
		name = "Unnamed product"
	}

	headline := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(fmt.Sprintf("%d/100  %s", score.FinalScore, score.Category))

	lines := []string{titleStyle.Render(name), headline}
	if score.TrustScore != nil {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("trust %d%%", *score.TrustScore)))
	}
	if score.OverrideReason != nil {
		lines = append(lines, minusStyle.Render("Safety override: "+*score.OverrideReason))
	}

	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("base %d", score.Breakdown.BaseScore)))
	for _, adj := range score.Breakdown.Adjustments {
		lines = append(lines, renderAdjustment(adj))
	}

	if s := score.HealthierAddon; s != nil {
		lines = append(lines, "", titleStyle.Render("Healthier: ")+s.ProductName, mutedStyle.Render(s.Description))
	}
	if s := score.TopInCategory; s != nil {
		lines = append(lines, "", titleStyle.Render("Top in category: ")+s.ProductName, mutedStyle.Render(s.Description))
	}

	return cardStyle.BorderForeground(color).Render(strings.Join(lines, "\n"))
}

func renderAdjustment(adj domain.ScoreAdjustment) string {
	points := fmt.Sprintf("%+4d", adj.Points)
	if adj.Points < 0 {
		points = minusStyle.Render(points)
	} else {
		points = plusStyle.Render(points)
	}
	return points + "  " + adj.Reason
}
