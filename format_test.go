package linn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammar_String(t *testing.T) {
	build := func() *Grammar {
		g, err := NewGrammar("testLinn").
			WithAuthor("someone").
			WithCreationTime(time.Date(2016, 1, 2, 15, 4, 5, 0, time.UTC)).
			WithRule("H").AndWeight(5.5).AndProduction().F().Rewrite("H").Done().
			WithRule("G").AndProduction().Move(2).Yaw(0.5).Done().
			WithRule("H").AndWeight(0.5).AndProduction().F().Branch().F().EndBranch().Done().
			Build()
		require.NoError(t, err)
		return g
	}

	want := "linn 'testLinn' (someone, 2016-01-02T15:04:05Z) {\n" +
		"\tH --5.5-> F H;\n" +
		"\tH --0.5-> F [ F ];\n" +
		"\tG --1-> F(2) yaw(0.5);\n" +
		"}"
	assert.Equal(t, want, build().String())
	assert.Equal(t, build().String(), build().String())
}

func TestGrammar_String_NoAuthor(t *testing.T) {
	g := New("bare")
	g.CreatedAt = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, g.AddRule(1, "E"))

	assert.Equal(t, "linn 'bare' (2020-01-01T00:00:00Z) {\n\tE --1->;\n}", g.String())
}
