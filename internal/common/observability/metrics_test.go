package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordsToRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("lucy-test", reg)
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordMessageProcessed(ctx, "ok")
	o.RecordMessageDuration(ctx, 120*time.Millisecond, "ok")

	_, span := o.Tracer().Start(ctx, "probe")
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "messages_processed_total")
	assert.Contains(t, names, "messages_duration_milliseconds")
}

func TestObservability_NilSafe(t *testing.T) {
	var o *Observability
	assert.NotPanics(t, func() {
		o.RecordMessageProcessed(context.Background(), "ok")
		o.RecordMessageDuration(context.Background(), time.Second, "ok")
		_ = o.Tracer()
	})
}
