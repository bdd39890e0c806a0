package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 45)
	assert.Equal(t, Pagination{Page: 1, PerPage: 20, Total: 45, TotalPages: 3}, p)
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 10, 45)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 20, p.Offset())

	assert.Equal(t, MaxPerPage, NewPagination(1, 1000, 0).PerPage)
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}
