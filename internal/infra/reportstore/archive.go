package reportstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// Archive writes profit reports as JSON documents keyed by month.
type Archive struct {
	storage ObjectStorage
	prefix  string
}

// NewArchive constructs an archive over storage.
func NewArchive(storage ObjectStorage, prefix string) *Archive {
	if prefix == "" {
		prefix = "profit"
	}
	return &Archive{storage: storage, prefix: prefix}
}

// SaveReport stores the report and returns its key.
func (a *Archive) SaveReport(ctx context.Context, report pool.ProfitReport) (string, error) {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	key := a.keyFor(report)
	obj, err := a.storage.Put(ctx, key, payload, "application/json")
	if err != nil {
		return "", fmt.Errorf("store report %s: %w", key, err)
	}
	return obj.Key, nil
}

// LoadReport reads a report previously written by SaveReport.
func (a *Archive) LoadReport(ctx context.Context, key string) (pool.ProfitReport, error) {
	rc, err := a.storage.Get(ctx, key)
	if err != nil {
		return pool.ProfitReport{}, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return pool.ProfitReport{}, err
	}
	var report pool.ProfitReport
	if err := json.Unmarshal(data, &report); err != nil {
		return pool.ProfitReport{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}

func (a *Archive) keyFor(report pool.ProfitReport) string {
	ts := report.GeneratedAt.UTC()
	return path.Join(a.prefix, ts.Format("2006-01"), fmt.Sprintf("report-%d.json", ts.Unix()))
}
