package recorder

import (
	"context"

	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
)

// NoopRecorder drops every record. Used when no database path is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordCalculation(context.Context, pool.CalculationRecord) error { return nil }

func (NoopRecorder) RecordServiceEvent(context.Context, pool.ServiceEvent) error { return nil }

func (NoopRecorder) RecordProfitReport(context.Context, pool.ProfitReport) error { return nil }

func (NoopRecorder) Close() error { return nil }

var _ pool.Recorder = NoopRecorder{}
