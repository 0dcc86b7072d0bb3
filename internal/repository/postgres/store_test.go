package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "billing_pkey"}

	assert.True(t, uniqueViolation(dup))
	assert.True(t, uniqueViolation(fmt.Errorf("insert billing: %w", dup)))
	assert.False(t, uniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, uniqueViolation(errors.New("connection refused")))
	assert.False(t, uniqueViolation(nil))
}
