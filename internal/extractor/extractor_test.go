// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cct-datascience/drone-pipeline/internal/imagery"
)

func TestRegistry(t *testing.T) {
	alg, err := Lookup("stub")
	require.NoError(t, err)

	_, err = alg.Calculate(&imagery.PixelGrid{})
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = Lookup("no-such-algorithm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-algorithm")

	assert.Contains(t, Names(), "greenness")
	assert.Contains(t, Names(), "stub")
}

func TestRegister_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("stub", Func(func(*imagery.PixelGrid) (Value, error) {
			return Value{}, nil
		}))
	})
}

func TestValue_Expand(t *testing.T) {
	fields := []string{"canopy_cover"}

	vals, err := Text("0.8210").Expand(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.8210"}, vals)

	vals, err = Float(0.5, 3).Expand(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.500"}, vals)

	vals, err = Int(42).Expand(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, vals)
}

func TestValue_ExpandPositional(t *testing.T) {
	fields := []string{"a", "b"}

	vals, err := List("1", "2").Expand(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, vals)

	_, err = List("1").Expand(fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 and received 1")
}

func TestValue_ExpandNamed(t *testing.T) {
	fields := []string{"a", "b"}

	// Extra named entries are filtered; order follows the field list.
	vals, err := Named(map[string]string{"b": "2", "a": "1", "extra": "9"}).Expand(fields)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, vals)

	_, err = Named(map[string]string{"a": "1"}).Expand(fields)
	assert.Error(t, err)
}

func TestValue_JSON(t *testing.T) {
	v, err := JSON(map[string]int{"n": 3})
	require.NoError(t, err)

	vals, err := v.Expand([]string{"counts"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":3}`, vals[0])
}

func TestGreenness(t *testing.T) {
	// Two pixels: pure green (2*255-0-0=510) and pure red (2*0-255-0=-255).
	plot := &imagery.PixelGrid{
		Width:  2,
		Height: 1,
		Pix:    []uint8{0, 255, 0, 255, 0, 0},
	}

	v, err := Greenness(plot)
	require.NoError(t, err)

	vals, err := v.Expand([]string{"greenness"})
	require.NoError(t, err)
	assert.Equal(t, "127.5000", vals[0])
}

func TestGreenness_EmptyPlot(t *testing.T) {
	_, err := Greenness(&imagery.PixelGrid{})
	assert.Error(t, err)
}
