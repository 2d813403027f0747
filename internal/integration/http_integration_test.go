package integration

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// doJSON sends a request to the HTTP API and decodes the protobuf JSON reply.
func doJSON(t *testing.T, method, url, body string) (int, *structpb.Struct) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var message structpb.Struct
	require.NoError(t, protojson.Unmarshal(data, &message))

	return resp.StatusCode, &message
}

// TestHTTP_SharesLatchWithGRPC posts readings over HTTP and observes them over gRPC.
func TestHTTP_SharesLatchWithGRPC(t *testing.T) {
	t.Parallel()

	ts := startServer(t)
	base := "http://" + ts.httpAddress

	code, message := doJSON(t, http.MethodPost, base+"/v1/readings",
		`{"temperature": 65, "smoke": 100, "gas": 200, "source": "o.shokin@kitchen"}`)
	require.Equal(t, http.StatusOK, code)

	evaluation, err := wire.ToEvaluation(message)
	require.NoError(t, err)
	require.True(t, evaluation.FireDetected)
	require.NotNil(t, evaluation.Event)
	require.Equal(t, alert.EventRaised, evaluation.Event.Kind)

	state, _, err := dial(t, ts).Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, alert.StateAlerting, state)

	code, _ = doJSON(t, http.MethodPost, base+"/v1/readings", `{"temperature": 65}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, message = doJSON(t, http.MethodPost, base+"/v1/readings", `{"temperature": 40, "smoke": 100, "gas": 200}`)
	require.Equal(t, http.StatusOK, code)

	evaluation, err = wire.ToEvaluation(message)
	require.NoError(t, err)
	require.Equal(t, alert.EventCleared, evaluation.Event.Kind)

	code, message = doJSON(t, http.MethodGet, base+"/v1/events", "")
	require.Equal(t, http.StatusOK, code)

	events, err := wire.ToEvents(message)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "o.shokin@kitchen", events[0].Reading.Source)

	code, message = doJSON(t, http.MethodGet, base+"/v1/report", "")
	require.Equal(t, http.StatusOK, code)

	report, err := wire.ToReport(message)
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalReadings)
	require.Equal(t, 1, report.Raised)
	require.Equal(t, 1, report.Cleared)
}
