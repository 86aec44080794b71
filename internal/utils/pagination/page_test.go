package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcErr "github.com/oggyb/vidrec/internal/errors"
)

func TestNew_RejectsNonPositive(t *testing.T) {
	for _, tc := range [][2]int{{0, 1}, {1, 0}, {-3, 2}, {5, -1}} {
		_, err := New(tc[0], tc[1])
		assert.ErrorIs(t, err, svcErr.ErrInvalidPage, "size=%d num=%d", tc[0], tc[1])
	}

	p, err := New(10, 3)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Offset())
}

func TestApply_PagesConcatenateToWholeList(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	var joined []int
	for num := 1; num <= 4; num++ {
		page := Apply(items, Page{Size: 3, Num: num})
		assert.LessOrEqual(t, len(page), 3)
		for k, v := range page {
			assert.Equal(t, items[(num-1)*3+k], v)
		}
		joined = append(joined, page...)
	}
	assert.Equal(t, items, joined)
}

func TestApply_PastEnd(t *testing.T) {
	items := []string{"a", "b"}

	assert.Empty(t, Apply(items, Page{Size: 2, Num: 2}))
	assert.NotNil(t, Apply(items, Page{Size: 2, Num: 2}))
	assert.Empty(t, Apply(items, Page{Size: math.MaxInt, Num: math.MaxInt}))
	assert.Empty(t, Apply([]string(nil), Page{Size: 1, Num: 1}))
}
