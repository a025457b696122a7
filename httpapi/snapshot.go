package httpapi

import (
	"time"

	"github.com/kopchik/smon"
)

type outcomeView struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

func newOutcomeView(o smon.Outcome) outcomeView {
	return outcomeView{Status: o.Status.String(), Text: o.Text}
}

type checkView struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Interval    string        `json:"interval"`
	LastChecked *time.Time    `json:"lastChecked,omitempty"`
	LastOutcome outcomeView   `json:"lastOutcome"`
	History     []outcomeView `json:"history,omitempty"`
}

type historyEntryView struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Text      string    `json:"text"`
}

type snapshot struct {
	Status        string             `json:"status"`
	Checks        []checkView        `json:"checks"`
	GlobalHistory []historyEntryView `json:"globalHistory"`
}

func newSnapshot(registry *smon.CheckRegistry, scheduler *smon.Scheduler) snapshot {
	checks := registry.Checks()

	views := make([]checkView, 0, len(checks))
	for _, c := range checks {
		view := checkView{
			Name:        c.Name,
			Description: c.Description,
			Interval:    c.Interval.String(),
			LastOutcome: newOutcomeView(c.LastOutcome()),
		}
		if lc := c.LastChecked(); !lc.IsZero() {
			view.LastChecked = &lc
		}
		for _, o := range c.History() {
			view.History = append(view.History, newOutcomeView(o))
		}
		views = append(views, view)
	}

	hist := scheduler.GlobalHistory().Snapshot()
	histViews := make([]historyEntryView, 0, len(hist))
	for _, e := range hist {
		histViews = append(histViews, historyEntryView{
			Timestamp: e.Timestamp,
			Status:    e.Status.String(),
			Text:      e.Text,
		})
	}

	return snapshot{
		Status:        smon.AggregateStatus(checks).String(),
		Checks:        views,
		GlobalHistory: histViews,
	}
}
