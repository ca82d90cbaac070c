package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(p *product) [][]int64 {
	var out [][]int64
	for {
		combo, ok := p.next()
		if !ok {
			return out
		}
		out = append(out, append([]int64(nil), combo...))
	}
}

func TestProduct_RightmostVariesFastest(t *testing.T) {
	got := collect(newProduct([][]int64{{1, 2}, {3, 4, 5}}))
	assert.Equal(t, [][]int64{{1, 3}, {1, 4}, {1, 5}, {2, 3}, {2, 4}, {2, 5}}, got)
}

func TestProduct_EmptyInputs(t *testing.T) {
	assert.Empty(t, collect(newProduct(nil)))
	assert.Empty(t, collect(newProduct([][]int64{{1, 2}, {}})))
}

func TestProduct_SingleList(t *testing.T) {
	assert.Equal(t, [][]int64{{7}, {8}}, collect(newProduct([][]int64{{7, 8}})))
}

func TestProduct_StaysDone(t *testing.T) {
	p := newProduct([][]int64{{1}})
	_, ok := p.next()
	assert.True(t, ok)
	_, ok = p.next()
	assert.False(t, ok)
	_, ok = p.next()
	assert.False(t, ok)
}

func TestKeyOf_SetSemantics(t *testing.T) {
	a, ok := keyOf([]int64{30, 10, 20})
	assert.True(t, ok)
	b, _ := keyOf([]int64{10, 20, 30})
	c, _ := keyOf([]int64{10, 20, 20, 30})
	d, _ := keyOf([]int64{10, 20})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, a, d)

	_, ok = keyOf([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.False(t, ok)
}

func TestConflictSet_Rejects(t *testing.T) {
	known := make(conflictSet)
	assert.False(t, known.rejects([]int64{1, 2}))

	known.add(Conflict{Section: 5, Other: 2})
	assert.True(t, known.rejects([]int64{2, 9, 5}))
	assert.False(t, known.rejects([]int64{2, 9, 6}))

	known.add(Conflict{Section: 7, Other: RestrictionOwner})
	assert.True(t, known.rejects([]int64{1, 7}))
	assert.False(t, known.rejects([]int64{1, 8}))
}
