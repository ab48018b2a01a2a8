// Package status builds the offline indicator shown to the user:
// per-collection sync counts, queue length and recent sync errors.
package status

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/iudanet/dashsync/internal/models"
)

// MaxShownErrors - сколько последних ошибок выводится до сводки "+N more"
const MaxShownErrors = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Source is the part of the record store the indicator reads from
type Source interface {
	GetRecordsByStatus(ctx context.Context, collection models.Collection, status models.SyncStatus) ([]*models.Record, error)
	QueueLength(ctx context.Context) (int, error)
	GetLastSyncTimestamp(ctx context.Context) (int64, error)
}

// Counts holds number of records per sync status
type Counts struct {
	Synced  int `json:"synced"`
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
}

func (c *Counts) add(o Counts) {
	c.Synced += o.Synced
	c.Pending += o.Pending
	c.Failed += o.Failed
}

// Snapshot is the state of the offline indicator at one moment
type Snapshot struct {
	LastSync    time.Time                    `json:"lastSync"`
	Collections map[models.Collection]Counts `json:"collections"`
	Errors      []string                     `json:"errors"`
	Totals      Counts                       `json:"totals"`
	QueueLength int                          `json:"queueLength"`
	Online      bool                         `json:"online"`
}

// Collect aggregates sync counts across all collections.
// Errors are the lastError of failed records, most recent first.
func Collect(ctx context.Context, src Source, online bool) (*Snapshot, error) {
	snap := &Snapshot{
		Collections: make(map[models.Collection]Counts),
		Errors:      []string{},
		Online:      online,
	}

	var failedRecords []*models.Record

	for _, c := range models.Collections() {
		var counts Counts
		for _, st := range models.SyncStatuses() {
			records, err := src.GetRecordsByStatus(ctx, c, st)
			if err != nil {
				return nil, fmt.Errorf("failed to count %s %s records: %w", st, c, err)
			}
			switch st {
			case models.SyncStatusSynced:
				counts.Synced = len(records)
			case models.SyncStatusPending:
				counts.Pending = len(records)
			case models.SyncStatusFailed:
				counts.Failed = len(records)
				failedRecords = append(failedRecords, records...)
			}
		}
		snap.Collections[c] = counts
		snap.Totals.add(counts)
	}

	sort.SliceStable(failedRecords, func(i, j int) bool {
		return failedRecords[i].LastModified > failedRecords[j].LastModified
	})
	for _, r := range failedRecords {
		if r.LastError == "" {
			continue
		}
		snap.Errors = append(snap.Errors, fmt.Sprintf("%s/%s: %s", r.Collection, r.ID, r.LastError))
	}

	n, err := src.QueueLength(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue length: %w", err)
	}
	snap.QueueLength = n

	ts, err := src.GetLastSyncTimestamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}
	if ts > 0 {
		snap.LastSync = time.UnixMilli(ts)
	}

	return snap, nil
}

// SummarizeErrors returns at most max messages, followed by "+N more" if some were cut
func SummarizeErrors(errs []string, max int) []string {
	if len(errs) <= max {
		return errs
	}
	out := make([]string, 0, max+1)
	out = append(out, errs[:max]...)
	return append(out, fmt.Sprintf("+%d more", len(errs)-max))
}

// Render formats the snapshot for the terminal
func Render(s *Snapshot, now time.Time) string {
	var b strings.Builder

	if s.Online {
		b.WriteString(onlineStyle.Render("● online"))
	} else {
		b.WriteString(offlineStyle.Render("○ offline"))
	}
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render("last sync: " + formatLastSync(s.LastSync, now)))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("%-14s %7s %7s %7s", "COLLECTION", "SYNCED", "PENDING", "FAILED")))
	b.WriteString("\n")
	for _, c := range models.Collections() {
		counts := s.Collections[c]
		b.WriteString(formatRow(string(c), counts))
	}
	b.WriteString(formatRow("total", s.Totals))

	b.WriteString("\n")
	queue := fmt.Sprintf("queue: %d pending mutation(s)", s.QueueLength)
	if s.QueueLength > 0 {
		b.WriteString(pendingStyle.Render(queue))
	} else {
		b.WriteString(subtleStyle.Render(queue))
	}
	b.WriteString("\n")

	if len(s.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Recent errors:"))
		b.WriteString("\n")
		for _, msg := range SummarizeErrors(s.Errors, MaxShownErrors) {
			b.WriteString("  ")
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func formatRow(name string, c Counts) string {
	row := fmt.Sprintf("%-14s %7d %7d %7d", name, c.Synced, c.Pending, c.Failed)
	if c.Failed > 0 {
		return errorStyle.Render(row) + "\n"
	}
	return row + "\n"
}

func formatLastSync(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	ago := now.Sub(t).Round(time.Second)
	if ago < time.Minute {
		return "just now"
	}
	return fmt.Sprintf("%s ago (%s)", ago, t.Local().Format("2006-01-02 15:04"))
}
