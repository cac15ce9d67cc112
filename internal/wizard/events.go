package wizard

type EventType string

const (
	EventBanner        EventType = "banner"
	EventBannerCleared EventType = "banner_cleared"
	EventScrollTop     EventType = "scroll_top"
	EventOpenURL       EventType = "open_url"
	EventStateChanged  EventType = "state_changed"
)

// Event is a transient UI instruction for the front end.
type Event struct {
	Type    EventType  `json:"type"`
	Scope   string     `json:"scope"`
	Kind    BannerKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
	URL     string     `json:"url,omitempty"`
}

type Emitter interface {
	Emit(e Event)
}

type EmitterFunc func(e Event)

func (f EmitterFunc) Emit(e Event) { f(e) }

var discard = EmitterFunc(func(Event) {})
