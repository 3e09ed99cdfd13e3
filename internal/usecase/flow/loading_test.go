package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadingMessage(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "Stiamo preparando la tua ricetta..."},
		{2499 * time.Millisecond, "Stiamo preparando la tua ricetta..."},
		{2500 * time.Millisecond, "Mescolando gli ingredienti..."},
		{10 * time.Second, "Quasi pronto..."},
		{12500 * time.Millisecond, "Stiamo preparando la tua ricetta..."},
		{-time.Second, "Stiamo preparando la tua ricetta..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LoadingMessage(tt.elapsed), "elapsed %s", tt.elapsed)
	}
}

func TestLoadingMessageEveryZeroInterval(t *testing.T) {
	assert.Equal(t, LoadingMessages[0], LoadingMessageEvery(time.Minute, 0))
}
