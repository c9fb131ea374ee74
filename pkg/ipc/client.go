// Package ipc fetches the national consumer price index (IPC, INDEC) from the
// datos.gob.ar time-series API and turns its two most recent observations
// into a month-over-month percentage.
package ipc

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/syncra/paritarias/internal/transport"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/logging"
)

const source = "datos.gob.ar"

// Config holds the index API settings. Zero values fall back to the
// published series endpoint, the national general series and a 15s timeout.
type Config struct {
	BaseURL    string
	SeriesID   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Observation is one point of the series.
type Observation struct {
	Period string  `json:"period" yaml:"period"`
	Value  float64 `json:"value" yaml:"value"`
}

// Client queries the series API.
type Client struct {
	cfg       Config
	transport *transport.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.IPCSeriesURL
	}
	if cfg.SeriesID == "" {
		cfg.SeriesID = constants.IPCSeriesID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultIPCTimeout
	}

	opts := []transport.Option{transport.WithSource(source), transport.WithTimeout(cfg.Timeout)}
	if cfg.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		cfg:       cfg,
		transport: transport.New(&transport.NoAuth{}, opts...),
	}
}

// SeriesID returns the series this client reads.
func (c *Client) SeriesID() string {
	return c.cfg.SeriesID
}

// seriesResponse is the subset of the API payload we read.
// Each data row is [period, value]; value may be null for unpublished months.
type seriesResponse struct {
	Data [][]any `json:"data"`
}

// Latest returns the most recent observations, newest first.
// Fewer than two usable points is an error.
func (c *Client) Latest(ctx context.Context) ([]Observation, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("series", c.cfg.SeriesID).
		Dur("timeout", c.cfg.Timeout).
		Msg("Fetching index observations")

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload seriesResponse
	if err := transport.DecodeResponse(resp, source, &payload); err != nil {
		return nil, err
	}

	return parseObservations(payload.Data)
}

// FetchDelta fetches the two latest observations and computes their delta.
func (c *Client) FetchDelta(ctx context.Context) (Delta, error) {
	obs, err := c.Latest(ctx)
	if err != nil {
		return Delta{}, err
	}

	current, previous := obs[0], obs[1]
	pct, err := ComputeDelta(previous.Value, current.Value)
	if err != nil {
		return Delta{}, err
	}

	d := Delta{
		Percent:  pct,
		Period:   current.Period,
		Current:  current.Value,
		Previous: previous.Value,
	}
	logging.Ctx(ctx).Info().
		Float64("delta_pct", d.Percent).
		Str("period", d.Period).
		Msg("Index delta computed")
	return d, nil
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", errors.NewConfigError("ipc", "invalid base URL "+c.cfg.BaseURL, err)
	}
	q := u.Query()
	q.Set("ids", c.cfg.SeriesID)
	q.Set("limit", strconv.Itoa(constants.IPCObservationLimit))
	q.Set("sort", "desc")
	q.Set("format", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseObservations(rows [][]any) ([]Observation, error) {
	if len(rows) < 2 {
		return nil, errors.NewParseError("json", source, "expected two observations, got "+strconv.Itoa(len(rows)), errors.ErrInsufficientData)
	}

	obs := make([]Observation, 0, 2)
	for i, row := range rows[:2] {
		if len(row) < 2 {
			return nil, errors.NewParseError("json", source, "row "+strconv.Itoa(i)+" has fewer than two columns", errors.ErrInsufficientData)
		}
		period, ok := row[0].(string)
		if !ok {
			return nil, errors.NewParseError("json", source, "row "+strconv.Itoa(i)+" period is not a string", nil)
		}
		value, ok := row[1].(float64)
		if !ok {
			return nil, errors.NewParseError("json", source, "row "+strconv.Itoa(i)+" value is not a number", errors.ErrInsufficientData)
		}
		obs = append(obs, Observation{Period: period, Value: value})
	}
	return obs, nil
}
