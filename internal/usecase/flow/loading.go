package flow

import "time"

const LoadingMessageInterval = 2500 * time.Millisecond

var LoadingMessages = []string{
	"Stiamo preparando la tua ricetta...",
	"Mescolando gli ingredienti...",
	"Consultando gli antichi manuali...",
	"Dosando le erbe...",
	"Quasi pronto...",
}

// LoadingMessage returns the status line shown after elapsed time in LOADING
func LoadingMessage(elapsed time.Duration) string {
	return LoadingMessageEvery(elapsed, LoadingMessageInterval)
}

// LoadingMessageEvery rotates the messages with a custom interval
func LoadingMessageEvery(elapsed, interval time.Duration) string {
	if elapsed < 0 || interval <= 0 {
		return LoadingMessages[0]
	}
	idx := int(elapsed/interval) % len(LoadingMessages)
	return LoadingMessages[idx]
}
