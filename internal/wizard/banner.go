package wizard

import "time"

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

type Banner struct {
	Kind    BannerKind `json:"kind"`
	Message string     `json:"message"`
}

// bannerSlot shows at most one banner per scope and clears it after a delay.
type bannerSlot struct {
	scope   string
	life    *lifetime
	emit    Emitter
	current *Banner
	seq     uint64
}

func newBannerSlot(scope string, life *lifetime, emit Emitter) *bannerSlot {
	return &bannerSlot{scope: scope, life: life, emit: emit}
}

// show replaces the current banner. then runs when this banner's delay
// elapses, even if a newer banner took its place.
func (b *bannerSlot) show(kind BannerKind, msg string, d time.Duration, then func()) {
	b.seq++
	seq := b.seq
	b.current = &Banner{Kind: kind, Message: msg}
	b.emit.Emit(Event{Type: EventBanner, Scope: b.scope, Kind: kind, Message: msg})

	b.life.after(d, func() {
		if b.seq == seq {
			b.current = nil
			b.emit.Emit(Event{Type: EventBannerCleared, Scope: b.scope})
		}
		if then != nil {
			then()
		}
	})
}

func (b *bannerSlot) scrollTop() {
	b.emit.Emit(Event{Type: EventScrollTop, Scope: b.scope})
}

func (b *bannerSlot) get() *Banner {
	if b.current == nil {
		return nil
	}
	cp := *b.current
	return &cp
}
