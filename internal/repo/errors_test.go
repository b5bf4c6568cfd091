package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("q: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"pq unique", &pq.Error{Code: "23505"}, ErrDuplicate},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"), ErrDuplicate},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := mapErr(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapErrPassesThroughOthers(t *testing.T) {
	t.Parallel()
	other := &pq.Error{Code: "23503"}
	assert.Same(t, other, mapErr(other))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapErr(plain))
}
