// Package console 在终端里打印榜单，对应 console 子命令
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cheng762/stolen-report/common"
	"github.com/cheng762/stolen-report/service/board"
	"github.com/cheng762/stolen-report/service/leaderboard"
)

// 名称列的最大显示宽度
const nameWidth = 32

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A3A3A3"))
	headStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Padding(0, 1)
	numStyle   = cellStyle.Align(lipgloss.Right)
	boxStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#737373")).
			Padding(0, 2)
)

type Report struct {
	Title   string
	Tagline string
	Date    string
	Snap    *board.Snapshot
}

func (r Report) String() string {
	var sb strings.Builder

	title := r.Title
	if title == "" {
		title = "Stolen NFTs Report"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	if r.Tagline != "" {
		sb.WriteString(mutedStyle.Render(r.Tagline))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	views := r.Snap.Views
	overview := fmt.Sprintf("Total stolen  %s\nTotal value   Ξ %s\nCollections   %d",
		common.FormatCount(views.Summary.TotalStolen),
		common.FormatFloatWithComma(views.Summary.TotalValue, 2),
		len(r.Snap.Records))
	sb.WriteString(boxStyle.Render(overview))
	sb.WriteString("\n\n")

	sb.WriteString(headStyle.Render("By Value"))
	sb.WriteString("\n")
	sb.WriteString(entries(views.ByValue, "Value", func(e leaderboard.Entry) string {
		return "Ξ " + common.FormatFloatWithComma(e.EstimatedValue, 2)
	}))
	sb.WriteString("\n\n")

	sb.WriteString(headStyle.Render("By Count"))
	sb.WriteString("\n")
	sb.WriteString(entries(views.ByCount, "Count", func(e leaderboard.Entry) string {
		return common.FormatCount(e.StolenCount)
	}))
	sb.WriteString("\n")

	if r.Date != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(r.Date))
		sb.WriteString("\n")
	}
	return sb.String()
}

func entries(list []leaderboard.Entry, valueHeader string, value func(leaderboard.Entry) string) string {
	if len(list) == 0 {
		return mutedStyle.Render("  (no data)")
	}

	rows := make([][]string, 0, len(list))
	for _, e := range list {
		name := e.DisplayName
		if name == "" {
			name = e.ContractAddress
		}
		rows = append(rows, []string{strconv.Itoa(e.Rank), common.Truncate(name, nameWidth), value(e)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "Collection", valueHeader).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headStyle
			case col == 2:
				return numStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// Print 写到 w（一般是 stdout）
func Print(w io.Writer, r Report) error {
	_, err := io.WriteString(w, r.String())
	return err
}
