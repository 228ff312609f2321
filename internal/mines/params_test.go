package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	for _, p := range Presets {
		parsed, err := ParseSeed(p.Seed())
		require.NoError(t, err)
		assert.Equal(t, p, *parsed)
	}

	for _, seed := range []string{
		"", "9:9", "a:b:c", "3:3:9", "4:5:3:junk", "4 5 3", "4:5: 3", "2000:2:1",
	} {
		_, err := ParseSeed(seed)
		assert.Error(t, err, "seed %q", seed)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  GameParams
	}{
		{"easy", GameParams{Rows: 9, Cols: 9, MineCount: 10}},
		{"Medium", GameParams{Rows: 16, Cols: 16, MineCount: 40}},
		{" HARD ", GameParams{Rows: 16, Cols: 30, MineCount: 99}},
	}
	for _, test := range tests {
		got, err := ParseDifficulty(test.input)
		require.NoError(t, err)
		assert.Equal(t, test.want, got)
	}

	_, err := ParseDifficulty("nightmare")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDifficulties(t *testing.T) {
	assert.Equal(t, []Difficulty{Easy, Medium, Hard}, Difficulties())
}

func TestGridToString(t *testing.T) {
	g := mustGame(t, 2, 3, Point{0, 0})
	_, err := g.ToggleFlag(0, 0)
	require.NoError(t, err)
	snap, err := g.Reveal(1, 2)
	require.NoError(t, err)

	want := "" +
		"   0 1 2 \n" +
		" 0 * 1   \n" +
		" 1 . 1   \n"
	assert.Equal(t, want, snap.String())
}
