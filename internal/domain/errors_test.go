package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/domain"
	"transfer_scanner/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("rename denied")
	err := fmt.Errorf("load state: %w", domain.WrapError(cause, errcodes.StateCorrupted, "deals file"))

	rq.ErrorIs(err, cause)
	rq.True(domain.IsAppError(err))
	rq.True(domain.HasCode(err, errcodes.StateCorrupted))
	rq.False(domain.HasCode(err, errcodes.RetryExhausted))
	rq.Equal("load state: deals file: rename denied", err.Error())

	code, ok := domain.GetCode(errors.New("plain"))
	rq.False(ok)
	rq.Empty(code)

	rq.Equal("no players", domain.NewError(errcodes.ElementNotFound, "no players").Error())
}
