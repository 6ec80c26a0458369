package logging

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Station-Manager/logging/correlation"
)

func decodeRecords(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestEnrichment_WithRequestContext(t *testing.T) {
	service, buf := newBufferService(t, testConfig())

	ctx := correlation.ContextWithRequest(context.Background(), &correlation.RequestContext{
		CorrelationID: "abc-123",
		ServiceName:   "test_service",
		Extra:         map[string]string{"tenant": "t1"},
	})

	service.InfoWith().Ctx(ctx).Str("user_id", "u1").Msg("processed")

	records := decodeRecords(t, buf.String())
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "abc-123", rec[FieldCorrelationID])
	assert.Equal(t, "test_service", rec[FieldServiceName])
	assert.Equal(t, "testhost", rec[FieldHostname])
	assert.Equal(t, "t1", rec["tenant"])
	assert.Equal(t, "processed", rec["message"])
}

func TestEnrichment_AbsentContext(t *testing.T) {
	service, buf := newBufferService(t, testConfig())

	service.InfoWith().Msg("startup")

	records := decodeRecords(t, buf.String())
	require.Len(t, records, 1)
	rec := records[0]
	_, present := rec[FieldCorrelationID]
	assert.False(t, present, "record outside any request must not carry a correlation id")
	// Static fields are still there.
	assert.Equal(t, "test_service", rec[FieldServiceName])
}

func TestEnrichment_EmptyIdentifierOmitted(t *testing.T) {
	service, buf := newBufferService(t, testConfig())

	// Disabled correlation installs a context with an empty identifier.
	ctx := correlation.ContextWithRequest(context.Background(), &correlation.RequestContext{})
	service.InfoWith().Ctx(ctx).Msg("disabled")

	records := decodeRecords(t, buf.String())
	require.Len(t, records, 1)
	_, present := records[0][FieldCorrelationID]
	assert.False(t, present)
}

func TestFor_PrepopulatesCorrelationFields(t *testing.T) {
	service, buf := newBufferService(t, testConfig())

	ctx := correlation.ContextWithRequest(context.Background(), &correlation.RequestContext{
		CorrelationID: "abc-123",
		Extra:         map[string]string{"tenant": "t1"},
	})

	req := service.For(ctx)
	req.InfoWith().Msg("first")
	req.WarnWith().Msg("second")

	records := decodeRecords(t, buf.String())
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "abc-123", rec[FieldCorrelationID])
		assert.Equal(t, "t1", rec["tenant"])
	}
}

func TestFor_AbsentContextYieldsPlainLogger(t *testing.T) {
	service, buf := newBufferService(t, testConfig())

	service.For(context.Background()).InfoWith().Msg("plain")

	records := decodeRecords(t, buf.String())
	require.Len(t, records, 1)
	_, present := records[0][FieldCorrelationID]
	assert.False(t, present)
}
