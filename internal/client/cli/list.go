package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/dashsync/internal/models"
)

// listOptions фильтры команды list
type listOptions struct {
	status models.SyncStatus
	from   string
	to     string
}

const dateLayout = "2006-01-02"

func (c *Cli) runList(ctx context.Context, collection models.Collection, opts listOptions) error {
	var (
		records []*models.Record
		err     error
	)

	if opts.from != "" || opts.to != "" {
		from, to, perr := parseRange(opts.from, opts.to, c.now())
		if perr != nil {
			return perr
		}
		records, err = c.dataService.ListByDate(ctx, collection, from, to)
		if err == nil && opts.status != "" {
			records = filterStatus(records, opts.status)
		}
	} else {
		records, err = c.dataService.List(ctx, collection, opts.status)
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", collection, err)
	}

	view := struct {
		Collection models.Collection
		Records    []*models.Record
	}{collection, records}

	if err := recordListTmpl.Execute(c.io, view); err != nil {
		return fmt.Errorf("failed to render records: %w", err)
	}
	return nil
}

// parseRange разбирает даты в локальной зоне; to включает весь указанный день
func parseRange(fromStr, toStr string, now time.Time) (time.Time, time.Time, error) {
	from := time.Time{}
	to := now.AddDate(100, 0, 0)

	if fromStr != "" {
		t, err := time.ParseInLocation(dateLayout, fromStr, time.Local)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date %q, expected YYYY-MM-DD", fromStr)
		}
		from = t
	}
	if toStr != "" {
		t, err := time.ParseInLocation(dateLayout, toStr, time.Local)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date %q, expected YYYY-MM-DD", toStr)
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func filterStatus(records []*models.Record, st models.SyncStatus) []*models.Record {
	out := records[:0]
	for _, r := range records {
		if r.SyncStatus == st {
			out = append(out, r)
		}
	}
	return out
}
