package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Nil", err: nil, expected: false},
		{name: "Translated gorm error", err: gorm.ErrDuplicatedKey, expected: true},
		{name: "Wrapped translated gorm error", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), expected: true},
		{name: "Raw pg unique violation", err: &pgconn.PgError{Code: "23505"}, expected: true},
		{name: "Other pg error", err: &pgconn.PgError{Code: "23503"}, expected: false},
		{name: "Unrelated error", err: errors.New("boom"), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsUniqueViolation(tc.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("get team: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("boom")))
}
