package session

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPreloaderDelay is how long the landing page preloader stays up.
const DefaultPreloaderDelay = 2000 * time.Millisecond

// Preloader is the one-shot splash of the landing page.
type Preloader struct {
	mu      sync.RWMutex
	visible bool
}

// NewPreloader shows the preloader and hides it once delay has elapsed.
func NewPreloader(clock clockwork.Clock, delay time.Duration) *Preloader {
	p := &Preloader{visible: true}
	clock.AfterFunc(delay, p.hide)
	return p
}

func (p *Preloader) hide() {
	p.mu.Lock()
	p.visible = false
	p.mu.Unlock()
}

// Visible reports whether the preloader is still shown.
func (p *Preloader) Visible() bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.visible
}
