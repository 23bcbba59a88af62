package common

import (
	"testing"

	"golang.org/x/xerrors"

	"github.com/stretchr/testify/suite"
)

type testError struct {
	suite.Suite
}

func (t *testError) TestNew() {
	e := NewError("test", 99, "show me")
	t.Equal("test-99", e.Code())
	t.Equal("show me", e.Message())
	t.Contains(e.Error(), "test-99")
	t.Contains(e.Error(), "show me")
}

func (t *testError) TestEqualByCode() {
	e0 := NewError("test", 1, "a")
	e1 := NewError("test", 1, "b")
	e2 := NewError("test", 2, "a")

	t.True(e0.Equal(e1))
	t.False(e0.Equal(e2))
	t.False(e0.Equal(xerrors.Errorf("a")))
}

func (t *testError) TestSetMessageKeepsCode() {
	e := NewError("test", 3, "original")
	n := e.SetMessage("refined; id=%q", "vote-1")

	t.True(e.Equal(n))
	t.Equal("test-3", n.Code())
	t.Contains(n.Message(), "vote-1")
}

func (t *testError) TestSetErrorUnwrap() {
	cause := xerrors.Errorf("the cause")
	e := NewError("test", 4, "wrapped").SetError(cause)

	t.Equal(cause, e.Unwrap())
	t.Contains(e.Error(), "the cause")
	t.True(e.Equal(NewError("test", 4, "wrapped")))
}

func TestError(t *testing.T) {
	suite.Run(t, &testError{})
}
