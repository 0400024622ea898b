package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/egemenh/salestracker/internal/application"
	"github.com/egemenh/salestracker/internal/domain"
)

const defaultMaxRows = 10

type RenderOptions struct {
	Now     time.Time
	MaxRows int
}

// Render produces the read-only dashboard text for a session snapshot.
// Used by the live TUI and the one-shot status command.
func Render(snapshot application.Snapshot, opts RenderOptions) string {
	return renderView(snapshot, opts, newStyles())
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	lines := []string{
		s.title.Render("Group Sales Tracker"),
	}

	if snapshot.GroupID == "" {
		lines = append(lines, s.empty.Render("Not logged in. Run `salestracker login` to start tracking."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.header.Render(fmt.Sprintf("group %s · %d sales tracked", snapshot.GroupID, len(snapshot.Transactions))))
	lines = append(lines, renderStats(snapshot, now, s))

	if snapshot.Error != "" {
		lines = append(lines, s.warning.Render("error: "+snapshot.Error))
	}
	if snapshot.StatusText != "" {
		lines = append(lines, s.status.Render(snapshot.StatusText))
	}
	if !snapshot.Loading {
		lines = append(lines, s.countdown.Render(fmt.Sprintf("next refresh in %ds", snapshot.Countdown)))
	}

	lines = append(lines, s.section.Render(renderSales(snapshot.Transactions, now, maxRows, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderStats(snapshot application.Snapshot, now time.Time, s styles) string {
	balance := "R$ -"
	pending := "R$ -"
	if snapshot.Stats != nil {
		balance = "R$ " + humanize.Comma(snapshot.Stats.Robux)
		pending = "R$ " + humanize.Comma(snapshot.Stats.PendingRobux)
	}

	today := todayTotal(snapshot.Transactions, now)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.balance.Render("balance "+balance),
		s.detail.Render("  ·  "),
		s.pending.Render("pending "+pending),
		s.detail.Render("  ·  "),
		s.detail.Render(fmt.Sprintf("today R$ %s", humanize.CommafWithDigits(today, 0))),
	)
}

func renderSales(history domain.TransactionHistory, now time.Time, maxRows int, s styles) string {
	if len(history) == 0 {
		return s.empty.Render("No sales recorded yet.")
	}

	rows := make([]string, 0, maxRows+1)
	rows = append(rows, s.header.Render("recent sales"))
	for i, tx := range history {
		if i >= maxRows {
			rows = append(rows, s.empty.Render(fmt.Sprintf("… and %d more", len(history)-maxRows)))
			break
		}
		rows = append(rows, renderSale(tx, now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSale(tx domain.Transaction, now time.Time, s styles) string {
	when := humanize.RelTime(tx.Created, now, "ago", "from now")
	item := tx.Details.Name
	if item == "" {
		item = fmt.Sprintf("item %d", tx.Details.ID)
	}
	pending := ""
	if tx.IsPending {
		pending = " (pending)"
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.saleTime.Render(fmt.Sprintf("%-16s", when)),
		s.saleItem.Render(item),
		s.saleAgent.Render(" ← "+tx.Agent.Name),
		s.amount.Render(fmt.Sprintf("  R$ %s", humanize.CommafWithDigits(tx.Currency.Amount, 0))),
		s.detail.Render(pending),
	)
}

func todayTotal(history domain.TransactionHistory, now time.Time) float64 {
	year, month, day := now.Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	var total float64
	for _, tx := range history {
		if tx.Created.Before(startOfDay) {
			// History is newest-first; everything past this point is older.
			break
		}
		total += tx.Currency.Amount
	}
	return total
}
