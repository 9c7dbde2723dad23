package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"stealthcompany.com/opsboard/internal/insight"
	"stealthcompany.com/opsboard/internal/pipeline"
	"stealthcompany.com/opsboard/internal/stageview"
	"stealthcompany.com/opsboard/internal/ticket"
)

var (
	red    = lipgloss.Color("#e53935")
	yellow = lipgloss.Color("#FFC107")
	green  = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6b7280")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(red)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1).
			Width(72)
)

// colorFor maps the board's semantic colors onto the terminal palette.
func colorFor(name string) lipgloss.Color {
	switch name {
	case "red":
		return red
	case "yellow":
		return yellow
	case "green":
		return green
	}
	return muted
}

func colored(name, s string) string {
	return lipgloss.NewStyle().Foreground(colorFor(name)).Render(s)
}

// badgeText pads before coloring so escape codes do not skew columns.
func badgeText(b insight.StatusBadge, width int) string {
	text := fmt.Sprintf("%-*s", width, b.Text)
	if b.Variant == insight.BadgeDestructive {
		return colored("red", text)
	}
	return text
}

func renderSummary(s insight.Summary) string {
	parts := make([]string, 0, len(s.Tiles))
	for _, tile := range s.Tiles {
		parts = append(parts, fmt.Sprintf("%s %d", mutedStyle.Render(tile.Label), tile.Value))
	}
	return titleStyle.Render("Onboarding board") + "\n" + strings.Join(parts, "  |  ")
}

func renderList(tickets []ticket.Ticket) string {
	if len(tickets) == 0 {
		return mutedStyle.Render("No tickets match the current filter")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-14s %-24s %-6s %-5s %-22s %s",
		"ID", "Client", "SLA", "Done", "Status", "Next action")))
	for _, t := range tickets {
		bucket := insight.SLABucket(t.SLAHours)
		id := t.ID
		if insight.HighPriority(t) {
			id = "!" + id
		}
		fmt.Fprintf(&b, "%-14s %-24s %s %4d%% %s %s\n",
			id,
			truncate(t.ClientName, 24),
			colored(bucket.Color(), fmt.Sprintf("%-6s", fmt.Sprintf("%dh", t.SLAHours))),
			insight.ProgressPercent(t),
			badgeText(insight.Badge(t), 22),
			insight.NextBestAction(t))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderDetail(t ticket.Ticket, board pipeline.Board) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(t.ClientName), mutedStyle.Render(t.ID+" · "+string(t.AccountType)))
	fmt.Fprintf(&b, "Status: %s   SLA: %s   Next: %s\n",
		badgeText(insight.Badge(t), 0),
		colored(insight.SLABucket(t.SLAHours).Color(), fmt.Sprintf("%dh", t.SLAHours)),
		insight.NextBestAction(t))

	if issues := insight.Issues(t); len(issues) > 0 {
		fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Issues"))
		for _, is := range issues {
			fmt.Fprintf(&b, "  - %s: %s\n", is.Title, is.Description)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", headerStyle.Render("Recommendations"))
	for _, r := range insight.DetailRecommendations(t) {
		fmt.Fprintf(&b, "  - %s\n", r)
	}

	fmt.Fprintf(&b, "\n%s %d/%d completed\n", headerStyle.Render("Stages"), board.Completed(), pipeline.Count)
	for i, s := range board.Stages {
		marker := " "
		if i == board.Current {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %d %-22s %s\n", marker, i, s.Name, stageStatus(s.Status))
	}
	return strings.TrimRight(b.String(), "\n")
}

func stageStatus(s ticket.StageStatus) string {
	switch s {
	case ticket.StageCompleted:
		return colored("green", string(s))
	case ticket.StageException:
		return colored("red", string(s))
	}
	return mutedStyle.Render(string(s))
}

func renderStage(v stageview.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(v.Stage.Name), mutedStyle.Render(v.Stage.Description))
	if v.Empty != "" {
		fmt.Fprintln(&b, mutedStyle.Render(v.Empty))
	}

	switch {
	case v.Documents != nil:
		for _, d := range v.Documents.Rows {
			check := "[ ]"
			if d.Validated || d.HumanChecked {
				check = "[x]"
			}
			fmt.Fprintf(&b, "%s %-24s %s\n", check, d.Name, colored(d.Band.Color(), string(d.Band)))
		}
		if len(v.Documents.Rows) > 0 {
			fmt.Fprintf(&b, "%d%% validated\n", v.Documents.ValidatedPercent)
		}
	case v.Extraction != nil:
		for _, f := range v.Extraction.Rows {
			fmt.Fprintf(&b, "%-32s %-36s %s\n", truncate(f.FieldName, 32), truncate(f.Value, 36),
				colored(f.Color, fmt.Sprintf("%d%%", f.Confidence)))
		}
		if v.Extraction.NeedsReview > 0 {
			fmt.Fprintf(&b, "%s\n", colored("red", fmt.Sprintf("%d field(s) need review", v.Extraction.NeedsReview)))
		}
	case v.SOR != nil:
		for _, c := range v.SOR.Rows {
			mark := colored("green", "match")
			if !c.Match {
				mark = colored("red", "MISMATCH")
			}
			fmt.Fprintf(&b, "%-20s %-30s %-30s %s\n", c.Field, truncate(c.Extracted, 30), truncate(c.SOR, 30), mark)
		}
	case v.Form != nil:
		fmt.Fprintln(&b, headerStyle.Render(v.Form.Title))
		for _, f := range v.Form.Fields {
			fmt.Fprintf(&b, "  %-28s %s\n", f.Label, f.Value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCards(cards []insight.Card) string {
	if insight.AllClear(cards) {
		return colored("green", insight.AllClearMessage)
	}

	out := make([]string, 0, len(cards))
	for _, c := range cards {
		color := "yellow"
		if c.Priority == insight.PriorityCritical || c.Priority == insight.PriorityHigh {
			color = "red"
		}
		body := colored(color, fmt.Sprintf("[%s] %s", c.Priority, c.Title)) + "\n" + c.Message
		out = append(out, cardStyle.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
