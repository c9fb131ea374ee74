package ipc_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
)

func seriesServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, constants.IPCSeriesID, q.Get("ids"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "desc", q.Get("sort"))
		assert.Equal(t, "json", q.Get("format"))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		previous, current, want float64
	}{
		{100, 102.5, 2.5},
		{100, 100, 0},
		{8000.1234, 8210.9876, 2.64},
		{200, 190, -5},
		{3.3, 3.4, 3.03},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v->%v", tt.previous, tt.current), func(t *testing.T) {
			got, err := ipc.ComputeDelta(tt.previous, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDeltaMatchesFormula(t *testing.T) {
	for previous := 50.0; previous < 150; previous += 7.3 {
		for current := 40.0; current < 200; current += 11.9 {
			got, err := ipc.ComputeDelta(previous, current)
			require.NoError(t, err)
			assert.Equal(t, ipc.Round2((current/previous-1)*100), got)
		}
	}
}

func TestComputeDeltaRejectsNonPositivePrevious(t *testing.T) {
	_, err := ipc.ComputeDelta(0, 10)
	assert.True(t, errors.IsValidationError(err))

	_, err = ipc.ComputeDelta(-1, 10)
	assert.True(t, errors.IsValidationError(err))
}

func TestDescribe(t *testing.T) {
	d := ipc.Delta{Percent: 2.5, Period: "2026-08-01"}
	assert.Equal(t, "Ajuste automático IPC INDEC: 2.5% (Mes: 2026-08-01)",
		ipc.Describe(constants.SanidadDescriptionTemplate, d))
	assert.Equal(t, "Ajuste automático IPC INDEC (Oficial): 2.5% (Mes: 2026-08-01)",
		ipc.Describe(constants.FederalDescriptionTemplate, d))
	assert.Equal(t, "3.03", ipc.FormatPercent(3.03))
}

func TestFetchDelta(t *testing.T) {
	server := seriesServer(t, http.StatusOK, `{"data":[["2026-08-01",102.5],["2026-07-01",100]],"count":2}`)

	client := ipc.New(ipc.Config{BaseURL: server.URL})
	d, err := client.FetchDelta(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ipc.Delta{Percent: 2.5, Period: "2026-08-01", Current: 102.5, Previous: 100}, d)
}

func TestLatestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "single observation",
			status: http.StatusOK,
			body:   `{"data":[["2026-08-01",102.5]]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrInsufficientData)
			},
		},
		{
			name:   "null value",
			status: http.StatusOK,
			body:   `{"data":[["2026-08-01",null],["2026-07-01",100]]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrInsufficientData)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				var parseErr *errors.ParseError
				assert.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsUnavailable(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := seriesServer(t, tt.status, tt.body)
			_, err := ipc.New(ipc.Config{BaseURL: server.URL}).Latest(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := ipc.New(ipc.Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	_, err := client.FetchDelta(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

type stubFetcher struct {
	delta ipc.Delta
	err   error
}

func (s stubFetcher) FetchDelta(context.Context) (ipc.Delta, error) {
	return s.delta, s.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	t.Run("lenient success", func(t *testing.T) {
		r, err := ipc.Resolve(ctx, stubFetcher{delta: ipc.Delta{Percent: 1.8, Period: "2026-09-01"}}, ipc.PolicyLenient, constants.SanidadDescriptionTemplate)
		require.NoError(t, err)
		assert.Equal(t, 1.8, r.Percent())
		assert.Equal(t, "Ajuste automático IPC INDEC: 1.8% (Mes: 2026-09-01)", r.Description)
		assert.False(t, r.Degraded())
	})

	t.Run("lenient failure falls back", func(t *testing.T) {
		r, err := ipc.Resolve(ctx, stubFetcher{err: boom}, ipc.PolicyLenient, constants.SanidadDescriptionTemplate)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Percent())
		assert.Equal(t, "Sin ajuste IPC - Valores base", r.Description)
		assert.True(t, r.Degraded())
		assert.ErrorIs(t, r.FetchError, boom)
	})

	t.Run("lenient zero is not degraded", func(t *testing.T) {
		r, err := ipc.Resolve(ctx, stubFetcher{delta: ipc.Delta{Period: "2026-09-01"}}, ipc.PolicyLenient, constants.SanidadDescriptionTemplate)
		require.NoError(t, err)
		assert.False(t, r.Degraded())
		assert.Equal(t, "Ajuste automático IPC INDEC: 0% (Mes: 2026-09-01)", r.Description)
	})

	t.Run("strict failure aborts", func(t *testing.T) {
		_, err := ipc.Resolve(ctx, stubFetcher{err: boom}, ipc.PolicyStrict, constants.FederalDescriptionTemplate)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("strict zero aborts", func(t *testing.T) {
		_, err := ipc.Resolve(ctx, stubFetcher{delta: ipc.Delta{Period: "2026-09-01"}}, ipc.PolicyStrict, constants.FederalDescriptionTemplate)
		assert.ErrorIs(t, err, errors.ErrNoAdjustment)
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := ipc.ParsePolicy("Lenient")
	require.NoError(t, err)
	assert.Equal(t, ipc.PolicyLenient, p)
	assert.Equal(t, "strict", ipc.PolicyStrict.String())

	_, err = ipc.ParsePolicy("sometimes")
	assert.Error(t, err)
}
