package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/alchimist/internal/game/check"
	"github.com/cory-johannsen/alchimist/internal/game/dice"
)

func TestQualityFor_Bands(t *testing.T) {
	cases := map[int]check.Quality{
		-3: check.QualityA, 6: check.QualityA, 7: check.QualityB, 12: check.QualityB,
		13: check.QualityC, 19: check.QualityD, 25: check.QualityE, 30: check.QualityE,
		31: check.QualityF, 90: check.QualityF,
	}
	for points, want := range cases {
		assert.Equal(t, want, check.QualityFor(points), "points %d", points)
	}
}

func TestQuality_String(t *testing.T) {
	assert.Equal(t, "M", check.QualityM.String())
	assert.Equal(t, "C", check.QualityC.String())
	assert.Equal(t, "Quality(9)", check.Quality(9).String())
}

func TestQuality_Raise(t *testing.T) {
	assert.Equal(t, check.QualityC, check.QualityA.Raise(2))
	assert.Equal(t, check.QualityF, check.QualityE.Raise(3))
	assert.Equal(t, check.QualityM, check.QualityM.Raise(1))
}

func TestBrewQuality(t *testing.T) {
	src := dice.NewSequence(3, 4)

	q, rolled := check.BrewQuality(success(6), 0, src)
	assert.Equal(t, check.QualityC, q)
	assert.Equal(t, [2]int{3, 4}, rolled)

	double := success(6)
	double.DoubleOne = true
	q, _ = check.BrewQuality(double, 0, src)
	assert.Equal(t, check.QualityD, q)

	triple := success(6)
	triple.TripleOne = true
	q, _ = check.BrewQuality(triple, 0, src)
	assert.Equal(t, check.QualityE, q)

	q, rolled = check.BrewQuality(failure(), 10, src)
	assert.Equal(t, check.QualityM, q)
	assert.Equal(t, [2]int{}, rolled)
}
