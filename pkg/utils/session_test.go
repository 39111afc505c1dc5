package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	before := time.Now()
	session := NewSession(context.Background())

	assert.False(t, session.Started().Before(before))
	assert.False(t, session.IsDone())

	session.Cancel()
	assert.True(t, session.IsDone())
	<-session.Done()
	assert.ErrorIs(t, session.Ctx().Err(), context.Canceled)
}
