package cryst

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenteringOK(Te *testing.T) {
	cases := []struct {
		h, k, l int
		c       Centering
		want    bool
	}{
		{1, 2, 3, CenterP, true},
		{1, 1, 2, CenterI, true},
		{1, 1, 1, CenterI, false},
		{-1, 0, 0, CenterI, false},
		{1, 0, 1, CenterA, false},
		{1, 1, 1, CenterA, true},
		{1, 0, 1, CenterB, true},
		{0, 1, 1, CenterB, false},
		{2, 0, 5, CenterC, true},
		{-1, 2, 5, CenterC, false},
		{1, 1, 1, CenterF, true},
		{2, 2, 0, CenterF, true},
		{1, 1, 0, CenterF, false},
		{1, 2, 2, CenterR, true},
		{-1, 1, 1, CenterR, true},
		{1, 0, 0, CenterR, false},
		{1, 0, 0, Centering('X'), true},
	}
	for _, c := range cases {
		assert.Equal(Te, c.want, CenteringOK(c.h, c.k, c.l, c.c), "%d %d %d %s", c.h, c.k, c.l, c.c)
	}
}

func TestParseCentering(Te *testing.T) {
	c, err := ParseCentering("i")
	require.NoError(Te, err)
	assert.Equal(Te, CenterI, c)
	_, err = ParseCentering("Q")
	assert.True(Te, errors.Is(err, ErrInput))
	_, err = ParseCentering("")
	assert.Error(Te, err)

	var s struct {
		C Centering `json:"c"`
	}
	require.NoError(Te, json.Unmarshal([]byte(`{"c":"F"}`), &s))
	assert.Equal(Te, CenterF, s.C)
	b, err := json.Marshal(s)
	require.NoError(Te, err)
	assert.JSONEq(Te, `{"c":"F"}`, string(b))
	assert.Error(Te, json.Unmarshal([]byte(`{"c":"Z"}`), &s))
}
