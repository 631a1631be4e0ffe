package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFiatToNative(t *testing.T) {
	// 2.00 fiat per native unit.
	quote := Quote{Price: 2_00000000, Decimals: 8, UpdatedAt: time.Now()}

	native, err := ConvertFiatToNative(4, quote)
	require.NoError(t, err)
	assert.Equal(t, int64(2_00000000), native)

	native, err = ConvertFiatToNative(0, quote)
	require.NoError(t, err)
	assert.Equal(t, int64(0), native)
}

func TestConvertFiatToNativeRoundsDown(t *testing.T) {
	quote := Quote{Price: 3_00000000, Decimals: 8, UpdatedAt: time.Now()}

	native, err := ConvertFiatToNative(1, quote)
	require.NoError(t, err)
	assert.Equal(t, int64(33333333), native)
}

func TestConvertFiatToNativeHighPrice(t *testing.T) {
	// 2000.00 fiat per native unit, like a typical ETH/USD reading.
	quote := Quote{Price: 2000_00000000, Decimals: 8, UpdatedAt: time.Now()}

	native, err := ConvertFiatToNative(4, quote)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), native)
}

func TestConvertFiatToNativeDefaultsDecimals(t *testing.T) {
	quote := Quote{Price: 1_00000000}

	native, err := ConvertFiatToNative(1, quote)
	require.NoError(t, err)
	assert.Equal(t, int64(1_00000000), native)
}

func TestConvertFiatToNativeRejectsBadInput(t *testing.T) {
	_, err := ConvertFiatToNative(1, Quote{Price: 0})
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInternal))

	_, err = ConvertFiatToNative(1, Quote{Price: -5})
	require.Error(t, err)

	_, err = ConvertFiatToNative(-1, Quote{Price: 1_00000000})
	require.Error(t, err)
	assert.True(t, IsDomainError(err, ErrCodeInvalid))
}

func TestQuoteAge(t *testing.T) {
	now := time.Now()
	quote := Quote{Price: 1, UpdatedAt: now.Add(-time.Minute)}
	assert.Equal(t, time.Minute, quote.Age(now))
}
