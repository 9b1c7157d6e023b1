package arrayutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	arr := []string{"a", "b", "c"}

	assert.True(t, Contains(arr, "b"))
	assert.False(t, Contains(arr, "d"))
	assert.False(t, Contains([]string{}, "a"))
}

func TestIndexOf(t *testing.T) {
	arr := []int{3, 1, 4, 1}

	assert.Equal(t, 0, IndexOf(arr, 3))
	assert.Equal(t, 1, IndexOf(arr, 1))
	assert.Equal(t, -1, IndexOf(arr, 9))
}

func TestRemoveLazy(t *testing.T) {
	{
		arr := []string{"a", "b", "c"}
		arr = RemoveLazy(arr, "a")
		assert.Len(t, arr, 2)
		assert.False(t, Contains(arr, "a"))
	}

	{
		arr := []string{"a"}
		assert.Empty(t, RemoveLazy(arr, "a"))
	}

	{
		arr := []string{"a", "b"}
		assert.Equal(t, []string{"a", "b"}, RemoveLazy(arr, "x"))
	}
}
