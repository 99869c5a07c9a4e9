package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileContent struct{}

func TestFromTaskInputIdentity(t *testing.T) {
	h := FromRaw[fileContent](7)

	got := FromTaskInput[Handle[fileContent]](h)
	assert.Equal(t, h, got)
}

func TestFromTaskInputNarrowsHandle(t *testing.T) {
	h := FromRaw[fileContent](7)

	got := FromTaskInput[ResolvedHandle[fileContent]](h)
	assert.Equal(t, RawHandle(7), got.IntoRaw())
}

func TestFromTaskInputContainers(t *testing.T) {
	in := []Handle[fileContent]{FromRaw[fileContent](1), FromRaw[fileContent](2)}

	got := FromTaskInput[[]ResolvedHandle[fileContent]](in)
	require.Len(t, got, 2)
	assert.Equal(t, RawHandle(1), got[0].IntoRaw())
	assert.Equal(t, RawHandle(2), got[1].IntoRaw())

	h := FromRaw[fileContent](3)
	opt := FromTaskInput[*ResolvedHandle[fileContent]](&h)
	require.NotNil(t, opt)
	assert.Equal(t, RawHandle(3), opt.IntoRaw())

	assert.Nil(t, FromTaskInput[*ResolvedHandle[fileContent]]((*Handle[fileContent])(nil)))
}

func TestFromTaskInputUnrelatedTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		FromTaskInput[Handle[fileContent]]("not a handle")
	})
}

func TestFromTaskInputRejectsGoConvertiblePairs(t *testing.T) {
	// Go-level convertibility is not enough: a mismatched engine input must
	// fail loudly, never be reinterpreted.
	assert.Panics(t, func() {
		FromTaskInput[string](42)
	})

	assert.Panics(t, func() {
		FromTaskInput[int64](int32(7))
	})

	assert.Panics(t, func() {
		FromTaskInput[Handle[fileContent]](RawHandle(7))
	})
}

func TestFromTaskInputInterfaceParam(t *testing.T) {
	got := FromTaskInput[any](42)
	assert.Equal(t, 42, got)
}

func TestOutputFromRaw(t *testing.T) {
	h := OutputFromRaw[fileContent](9)
	assert.Equal(t, RawHandle(9), h.IntoRaw())
}
