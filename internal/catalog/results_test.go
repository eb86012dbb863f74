package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_RatchetOnlyMovesForward(t *testing.T) {
	r := NewResultSet()

	r.Apply(2, books(1))
	assert.Equal(t, 2, r.Page())

	r.Apply(1, books(2))
	assert.Equal(t, 2, r.Page(), "stale lower page must not rewind")

	r.Apply(3, books(3))
	assert.Equal(t, 3, r.Page())
}

func TestResultSet_SetPageClampsAtZero(t *testing.T) {
	r := NewResultSet()

	assert.Equal(t, 0, r.SetPage(-1))
	assert.Equal(t, 4, r.SetPage(4))
	assert.Equal(t, 1, r.SetPage(1), "navigation may move backwards")
}

func TestResultSet_PageMonotonicity(t *testing.T) {
	r := NewResultSet()
	maxSeen := 0
	for _, p := range []int{0, 3, 1, 2, 5, 4, 0} {
		r.Apply(p, nil)
		if p > maxSeen {
			maxSeen = p
		}
		assert.Equal(t, maxSeen, r.Page())
	}
}

func TestResultSet_Satisfied(t *testing.T) {
	r := NewResultSet()
	full := make([]int, PageSize)
	for i := range full {
		full[i] = i + 1
	}
	r.Apply(0, books(full...))

	assert.True(t, r.Satisfied(0))
	assert.False(t, r.Satisfied(1))

	r.Apply(1, books(100, 101))
	assert.True(t, r.Satisfied(1), "a short last page counts once it was loaded")
	assert.Equal(t, []int{100, 101}, ids(r.PageBooks(1)))
}

func TestResultSet_Reset(t *testing.T) {
	r := NewResultSet()
	r.Apply(3, books(1, 2))

	r.Reset()

	assert.Equal(t, 0, r.Page())
	assert.Zero(t, r.Store().Len())
	assert.False(t, r.Satisfied(3))
}
