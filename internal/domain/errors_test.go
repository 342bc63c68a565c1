package domain

import (
	"errors"
	"testing"
)

func TestDomainErrors_AreStableAndUsableWithErrorsIs(t *testing.T) {
	all := []error{ErrNotFound, ErrDuplicateName, ErrInvalidCredentials, ErrForbidden}
	for i, e := range all {
		if e == nil {
			t.Fatalf("domain error %d must not be nil", i)
		}
		if e.Error() == "" {
			t.Fatalf("domain error %d message should not be empty", i)
		}
		for j, other := range all {
			if i != j && e == other {
				t.Fatalf("domain errors must be distinct")
			}
		}
	}

	wrapped := errors.Join(errors.New("context"), ErrDuplicateName)
	if !errors.Is(wrapped, ErrDuplicateName) {
		t.Fatalf("expected errors.Is to match ErrDuplicateName")
	}
}
