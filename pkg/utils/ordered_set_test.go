package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rue-lang.dev/rue/pkg/utils"
)

func TestOrderedSetPreservesInsertionOrder(t *testing.T) {
	s := utils.NewOrderedSet[string]()
	s.Add("b")
	s.Add("a")
	s.Add("c")
	assert.Equal(t, []string{"b", "a", "c"}, s.Items())
	assert.Equal(t, 3, s.Len())
}

func TestOrderedSetAddIsIdempotent(t *testing.T) {
	s := utils.NewOrderedSet[int]()
	s.Add(1)
	s.Add(2)
	s.Add(1)
	assert.Equal(t, []int{1, 2}, s.Items(), "re-adding 1 must not move it or duplicate it")
}

func TestOrderedSetHas(t *testing.T) {
	s := utils.NewOrderedSet[int]()
	assert.False(t, s.Has(5))
	s.Add(5)
	assert.True(t, s.Has(5))
}
