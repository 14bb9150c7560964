package terminal

import (
	"fmt"
	"io"
	"sync"

	"fulfillmentpro-push/internal/client/foreground"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerBase = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 3)

	successStyle = bannerBase.Background(lipgloss.Color("#22c55e"))
	deniedStyle  = bannerBase.Background(lipgloss.Color("#ef4444"))
)

// Banners prints banners to w and tracks which are still on screen.
type Banners struct {
	w       io.Writer
	mu      sync.Mutex
	pending sync.WaitGroup
}

func NewBanners(w io.Writer) *Banners {
	return &Banners{w: w}
}

func (b *Banners) Show(kind foreground.BannerKind, text string) foreground.Banner {
	style := successStyle
	if kind == foreground.BannerDenied {
		style = deniedStyle
	}

	b.mu.Lock()
	fmt.Fprintln(b.w, style.Render(text))
	b.mu.Unlock()

	b.pending.Add(1)
	return &banner{done: b.pending.Done}
}

// Wait blocks until every banner shown so far has been removed.
func (b *Banners) Wait() {
	b.pending.Wait()
}

type banner struct {
	once sync.Once
	done func()
}

func (b *banner) Remove() {
	b.once.Do(b.done)
}
