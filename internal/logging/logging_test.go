package logging

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, logrus.WarnLevel)

	l.Info("hidden")
	l.WithField("display", 1).Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "display=1")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.Equal(t, io.Discard, l.Out)
}

func TestOrDiscard(t *testing.T) {
	got := OrDiscard(nil)
	l, ok := got.(*logrus.Logger)
	if assert.True(t, ok) {
		assert.Equal(t, io.Discard, l.Out)
	}

	own := logrus.New()
	assert.Same(t, own, OrDiscard(own))
}
