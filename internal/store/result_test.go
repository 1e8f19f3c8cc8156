package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestRequireAffected(t *testing.T) {
	assert.NoError(t, requireAffected(fakeResult{rows: 1}, "task t1"))

	err := requireAffected(fakeResult{}, "task t1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "task t1")

	driverErr := errors.New("rows affected unsupported")
	err = requireAffected(fakeResult{err: driverErr}, "notification n1")
	assert.True(t, errors.Is(err, driverErr))
	assert.False(t, errors.Is(err, ErrNotFound))
}
