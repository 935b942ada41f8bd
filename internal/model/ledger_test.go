package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAction(t *testing.T) {
	for _, a := range []LedgerAction{ActionAdd, ActionWithdraw, ActionRefill, ActionUpdate, ActionDelete} {
		assert.True(t, ValidAction(a))
	}
	assert.False(t, ValidAction("Edit")) // the old client-side label is not canonical
	assert.False(t, ValidAction(""))
}
