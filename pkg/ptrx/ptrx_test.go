package ptrx_test

import (
	"testing"

	"github.com/Abraxas-365/nccerp/pkg/ptrx"
	"github.com/stretchr/testify/assert"
)

func TestDeref(t *testing.T) {
	assert.Equal(t, "", ptrx.Deref[string](nil))
	assert.Equal(t, 3, ptrx.Deref(ptrx.Int(3)))
	assert.Equal(t, "x", ptrx.DerefOr(nil, "x"))
}

func TestApply(t *testing.T) {
	title := "old"
	ptrx.Apply(&title, nil)
	assert.Equal(t, "old", title)

	ptrx.Apply(&title, ptrx.String("new"))
	assert.Equal(t, "new", title)
}

func TestTrimmedString(t *testing.T) {
	assert.Nil(t, ptrx.TrimmedString(nil))
	assert.Equal(t, "a b", *ptrx.TrimmedString(ptrx.String("  a b ")))
}
