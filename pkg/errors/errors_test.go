package errors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/syncra/paritarias/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("table", "maestro_paritarias_sanidad")
		assert.Equal(t, `table "maestro_paritarias_sanidad" not found`, err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", pkgerrors.NewNotFoundError("entity", "x"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("scheme", "hospital", "unknown scheme")
		assert.Equal(t, "validation failed for field scheme: unknown scheme", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty jurisdiction list"}
		assert.Equal(t, "validation failed: empty jurisdiction list", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{429, pkgerrors.ErrRateLimited},
		{404, pkgerrors.ErrNotFound},
		{401, pkgerrors.ErrAPIKeyRequired},
		{403, pkgerrors.ErrAPIKeyRequired},
		{502, pkgerrors.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := pkgerrors.NewAPIError("datos.gob.ar", tt.status, "boom")
			assert.Contains(t, err.Error(), "datos.gob.ar")
			assert.True(t, errors.Is(err, tt.target))
		})
	}

	t.Run("bad request matches nothing", func(t *testing.T) {
		err := pkgerrors.NewAPIError("supabase", 400, "bad")
		assert.False(t, errors.Is(err, pkgerrors.ErrUnavailable))
		assert.False(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.WrapAPI("supabase", 0, base)
		assert.True(t, errors.Is(err, base))
		assert.Equal(t, "API error from supabase: connection reset", err.Error())
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("missing")
	err := pkgerrors.NewConfigError("store", "SUPABASE_URL is required", base)
	assert.Equal(t, "configuration error in store: SUPABASE_URL is required", err.Error())
	assert.ErrorIs(t, err, base)

	var cfgErr *pkgerrors.ConfigError
	require.True(t, pkgerrors.As(fmt.Errorf("boot: %w", err), &cfgErr))
	assert.Equal(t, "store", cfgErr.Component)
}

func TestSyncError(t *testing.T) {
	err := pkgerrors.NewSyncError("federal", "fetch", pkgerrors.ErrNoAdjustment)
	assert.Equal(t, "sync of federal failed during fetch: no index adjustment", err.Error())
	assert.ErrorIs(t, err, pkgerrors.ErrNoAdjustment)
}

func TestResourceError(t *testing.T) {
	t.Run("with id", func(t *testing.T) {
		err := pkgerrors.NewResourceError("upsert", "maestro_paritarias_sanidad", "caba", errors.New("conflict"))
		assert.Equal(t, "failed to upsert maestro_paritarias_sanidad caba: conflict", err.Error())
	})

	t.Run("without id", func(t *testing.T) {
		err := pkgerrors.NewResourceError("load", "syncra_entities", "", nil)
		assert.Equal(t, "failed to load syncra_entities: ", err.Error())
	})
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("ipc fetch", "15s", "no response")
	assert.Equal(t, "operation ipc fetch timed out after 15s: no response", err.Error())
	assert.True(t, pkgerrors.IsTimeout(err))
}

func TestWrapHelpersNil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapValidation("f", nil))
	assert.NoError(t, pkgerrors.WrapIO("read", "p", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "t", "", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "s", nil))
	assert.NoError(t, pkgerrors.WrapAPI("s", 0, nil))
}

func TestWrapParse(t *testing.T) {
	base := errors.New("unexpected end of JSON input")
	err := pkgerrors.WrapParse("json", "series API", base)
	assert.Equal(t, "json parse error in series API: unexpected end of JSON input", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.True(t, pkgerrors.IsCanceled(fmt.Errorf("fetch: %w", context.Canceled)))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.NewSyncError("sanidad", "save", context.Canceled)))
	assert.False(t, pkgerrors.IsCanceled(context.DeadlineExceeded))
}

func TestWrapValidation(t *testing.T) {
	err := pkgerrors.WrapValidation("interval", errors.New(`time: invalid duration "daily"`))
	assert.Equal(t, `validation failed for field interval: time: invalid duration "daily"`, err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestWrapIO(t *testing.T) {
	base := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "out.json", base)
	assert.Equal(t, "IO error during write of out.json: disk full", err.Error())
	assert.ErrorIs(t, err, base)
}
