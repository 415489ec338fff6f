package common_test

import (
	"math"
	"testing"

	"github.com/paveg/cub/internal/common"
	"github.com/paveg/cub/internal/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeConverter(t *testing.T) {
	converter := common.NewTypeConverter()

	t.Run("ToInt64", func(t *testing.T) {
		result, err := converter.ToInt64(int32(42))
		require.NoError(t, err)
		assert.Equal(t, int64(42), result)

		result, err = converter.ToInt64(uint16(7))
		require.NoError(t, err)
		assert.Equal(t, int64(7), result)

		result, err = converter.ToInt64(3.0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result)

		result, err = converter.ToInt64(true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result)

		_, err = converter.ToInt64(uint64(math.MaxUint64))
		require.Error(t, err)

		_, err = converter.ToInt64(2.5)
		require.Error(t, err)

		_, err = converter.ToInt64("12")
		require.Error(t, err)
	})

	t.Run("ToFloat64", func(t *testing.T) {
		result, err := converter.ToFloat64(int8(-3))
		require.NoError(t, err)
		assert.InDelta(t, -3.0, result, 1e-12)

		result, err = converter.ToFloat64(float32(1.5))
		require.NoError(t, err)
		assert.InDelta(t, 1.5, result, 1e-12)

		_, err = converter.ToFloat64("x")
		require.Error(t, err)
	})

	t.Run("ToString", func(t *testing.T) {
		assert.Equal(t, "42", converter.ToString(42))
		assert.Equal(t, "1.5", converter.ToString(1.5))
		assert.Equal(t, "true", converter.ToString(true))
		assert.Equal(t, "abc", converter.ToString("abc"))
	})

	t.Run("Type checks", func(t *testing.T) {
		assert.True(t, converter.IsIntegerType(uint8(1)))
		assert.True(t, converter.IsIntegerType(int64(1)))
		assert.False(t, converter.IsIntegerType(1.0))
		assert.False(t, converter.IsIntegerType("1"))
		assert.Equal(t, "int64", converter.GetTypeName(int64(1)))
		assert.Equal(t, "nil", converter.GetTypeName(nil))
	})
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, common.IsIntegral(4))
	assert.True(t, common.IsIntegral(-0.0))
	assert.False(t, common.IsIntegral(4.5))
	assert.False(t, common.IsIntegral(math.NaN()))
	assert.False(t, common.IsIntegral(math.Inf(1)))
}

func TestNewScalar(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		kind  series.Kind
		str   string
	}{
		{"int", 5, series.Int, "5"},
		{"uint32", uint32(9), series.Int, "9"},
		{"float32", float32(0.5), series.Float, "0.5"},
		{"float64", 2.25, series.Float, "2.25"},
		{"bool", true, series.Bool, "true"},
		{"string", "ab", series.Object, `"ab"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := common.NewScalar(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.str, s.String())
		})
	}

	t.Run("numeric views", func(t *testing.T) {
		s, err := common.NewScalar(true)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, s.Float64(), 1e-12)
		assert.Equal(t, int64(1), s.Int64())

		s, err = common.NewScalar(int16(-4))
		require.NoError(t, err)
		assert.InDelta(t, -4.0, s.Float64(), 1e-12)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := common.NewScalar([]int{1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[]int")

		_, err = common.NewScalar(nil)
		require.Error(t, err)

		_, err = common.NewScalar(uint64(math.MaxUint64))
		require.Error(t, err)
	})
}
