package serrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

func TestWrap_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := serrors.Wrap(serrors.ErrTransport, cause, "fetch ABN %s", "123")

	require.ErrorIs(t, err, serrors.ErrTransport)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
	require.Equal(t, "fetch ABN 123: connection reset", err.Error())
}

func TestWith_MessageOnly(t *testing.T) {
	err := serrors.With(serrors.ErrNotFound, "no business entity")
	require.Equal(t, "no business entity", err.Error())
	require.Nil(t, err.Unwrap())
}

func TestKindName(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", serrors.With(serrors.ErrMalformed, "bad xml"))
	require.Equal(t, "MALFORMED", serrors.KindName(wrapped))
	require.Equal(t, "UNKNOWN", serrors.KindName(errors.New("plain")))
	require.Nil(t, serrors.KindOf(nil))
}
