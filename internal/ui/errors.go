package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ddtest/internal/config"
	"ddtest/internal/domain"
	"ddtest/internal/storage"
)

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	config  *config.Config
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(cfg *config.Config, st storage.Storage) *ErrorViewer {
	return &ErrorViewer{
		config:  cfg,
		storage: st,
	}
}

// viewItem is one entry of the failure list: a parsed test failure, or a
// descriptor that failed without any parseable test failure.
type viewItem struct {
	failure    *domain.TestFailure
	descriptor *domain.DescriptorResult
}

func collectItems(report *domain.RunReport) []viewItem {
	var items []viewItem
	for i := range report.Descriptors {
		d := &report.Descriptors[i]
		if d.Success {
			continue
		}
		if len(d.Failures) == 0 {
			items = append(items, viewItem{descriptor: d})
			continue
		}
		for j := range d.Failures {
			items = append(items, viewItem{failure: &d.Failures[j], descriptor: d})
		}
	}
	return items
}

func (it viewItem) title(index int) string {
	if it.failure == nil {
		return it.descriptor.Name
	}
	if it.failure.TestName == "" {
		return fmt.Sprintf("Test %d", index+1)
	}
	return it.failure.Suite + "." + it.failure.TestName
}

func (it viewItem) resolved() bool {
	return it.failure != nil && it.failure.Resolved
}

// View displays test failures in an interactive TUI. Toggling a failure as
// resolved is saved back to the report.
func (ev *ErrorViewer) View(report *domain.RunReport) error {
	items := collectItems(report)
	if len(items) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	getListItemText := func(index int) string {
		title := items[index].title(index)
		if items[index].resolved() {
			return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, title)
		}
		return fmt.Sprintf("[yellow]%d.[white] %s", index+1, title)
	}

	for i := range items {
		list.AddItem(getListItemText(i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		unresolved := 0
		for _, it := range items {
			if !it.resolved() {
				unresolved++
			}
		}
		headerView.SetText(fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ", len(items), unresolved))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(items) {
			statsView.SetText(formatItemStats(items[index], index))
			detailsView.SetText(formatItemDetails(items[index]))
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(items) && items[index].failure != nil {
					items[index].failure.Resolved = !items[index].failure.Resolved
					list.SetItemText(index, getListItemText(index), "")
					updateHeader()
					updateDetails()
					saveErr = ev.storage.Save(report)
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

// formatItemDetails formats a failure for display using tview color tags
func formatItemDetails(it viewItem) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	if it.failure == nil {
		fmt.Fprintf(w, "[red]✗ Test run failed: %s[white]\n\n", it.descriptor.Name)
		if it.descriptor.Error != "" {
			fmt.Fprintf(w, "[yellow]Error:[white]\n%s\n\n", tview.Escape(it.descriptor.Error))
		}
		if it.descriptor.Output != "" {
			fmt.Fprintf(w, "[yellow]Output:[white]\n%s\n", tview.Escape(it.descriptor.Output))
		}
		w.Flush()
		return builder.String()
	}

	failure := it.failure
	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n\n", failure.TestName)
	fmt.Fprintf(w, "[cyan]Suite: %s[white]\n", failure.Suite)
	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(w, "[yellow]Location: %s:%d[white]\n", failure.File, failure.Line)
	}
	fmt.Fprintf(w, "\n")

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	w.Flush()
	return builder.String()
}

// formatItemStats formats the header line above the details
func formatItemStats(it viewItem, index int) string {
	return fmt.Sprintf("[cyan]test run:[white] [yellow]%s[white] :: [yellow]%s[white]\n",
		it.descriptor.Name, it.title(index))
}
