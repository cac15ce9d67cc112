package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/validation"
)

const NewEntityKey = "new"

// panel is what the page drives for every section, whatever its entity type.
type panel interface {
	key() string
	load(ctx context.Context) error
	add() error
	edit(id int64) error
	back(ctx context.Context) error
	submit(ctx context.Context, raw json.RawMessage, files map[string]*models.Attachment) error
	restore(raw json.RawMessage) error
	remove(ctx context.Context, id int64, confirm Confirm) (bool, error)
	snapshot() PanelSnapshot
}

// PanelSnapshot is the renderable state of one section.
type PanelSnapshot struct {
	Key       string            `json:"key"`
	Title     string            `json:"title"`
	Mode      Kind              `json:"mode"`
	Creating  bool              `json:"creating"`
	Selected  any               `json:"selected,omitempty"`
	Input     any               `json:"input,omitempty"`
	Errors    validation.Errors `json:"errors,omitempty"`
	Form      FormStatus        `json:"form_status,omitempty"`
	Restored  bool              `json:"restored,omitempty"`
	Status    ListStatus        `json:"status"`
	Items     any               `json:"items"`
	Error     string            `json:"error,omitempty"`
	Banner    *Banner           `json:"banner,omitempty"`
	Deletable bool              `json:"deletable"`
	CanAdd    bool              `json:"can_add"`
}

// EntityKey names the entity the open form edits: its id, or "new".
func (s PanelSnapshot) EntityKey() string {
	if e, ok := s.Selected.(models.Entity); ok && e.EntityID() != 0 {
		return strconv.FormatInt(e.EntityID(), 10)
	}
	return NewEntityKey
}

// sectionPanel wires a container, its list and its form together.
type sectionPanel[T models.Entity, I forms.Input] struct {
	deps
	sec       *Section[T, I]
	delay     time.Duration
	banner    *bannerSlot
	container *Container[T]
	list      *List[T]
	form      *Form[T, I]
}

func newSectionPanel[T models.Entity, I forms.Input](sec *Section[T, I], d deps, delay time.Duration) *sectionPanel[T, I] {
	p := &sectionPanel[T, I]{
		deps:   d,
		sec:    sec,
		delay:  delay,
		banner: newBannerSlot(sec.Key, d.life, d.emit),
	}
	p.list = newList(sec, d, p.banner, delay)
	p.container = NewContainer[T](p.list.MarkStale)
	return p
}

func (p *sectionPanel[T, I]) key() string { return p.sec.Key }

func (p *sectionPanel[T, I]) load(ctx context.Context) error { return p.list.Load(ctx) }

func (p *sectionPanel[T, I]) canAdd() bool {
	return !p.sec.Singular || len(p.list.items) == 0
}

func (p *sectionPanel[T, I]) add() error {
	if !p.canAdd() {
		return utils.E(utils.CodeConflict, "Panel.Add", "Data sudah ada, silakan ubah data yang tersimpan.", nil)
	}
	p.container.Add()
	p.openForm(nil)
	return nil
}

func (p *sectionPanel[T, I]) edit(id int64) error {
	item, ok := p.list.Find(id)
	if !ok {
		return utils.E(utils.CodeNotFound, "Panel.Edit", "Data tidak ditemukan.", nil)
	}
	p.container.Edit(item)
	p.openForm(p.container.State().Entity())
	return nil
}

func (p *sectionPanel[T, I]) openForm(entity *T) {
	var f *Form[T, I]
	f = newForm(p.sec, p.deps, p.banner, p.delay, entity, func(T) {
		if p.form == f {
			p.form = nil
			p.container.OnSaved()
		} else {
			p.list.MarkStale()
		}
		_ = p.list.Load(p.life.ctx)
		p.emit.Emit(Event{Type: EventStateChanged, Scope: p.sec.Key})
	})
	p.form = f
}

func (p *sectionPanel[T, I]) back(ctx context.Context) error {
	if p.container.State().Kind() == KindEdit {
		p.form = nil
		p.container.OnBack()
	}
	if p.list.Stale() {
		return p.list.Load(ctx)
	}
	return nil
}

func (p *sectionPanel[T, I]) submit(ctx context.Context, raw json.RawMessage, files map[string]*models.Attachment) error {
	const op = "Panel.Submit"
	if p.form == nil {
		return utils.E(utils.CodeConflict, op, "Buka formulir terlebih dahulu.", nil)
	}
	in, err := decodeInput(p.sec.NewInput(p.container.State().Entity()), raw, files, op)
	if err != nil {
		return err
	}
	return p.form.Submit(ctx, in)
}

// restore fills the open form from a saved draft without validating it.
func (p *sectionPanel[T, I]) restore(raw json.RawMessage) error {
	const op = "Panel.Restore"
	if p.form == nil {
		return utils.E(utils.CodeConflict, op, "Buka formulir terlebih dahulu.", nil)
	}
	in, err := decodeInput(p.sec.NewInput(p.container.State().Entity()), raw, nil, op)
	if err != nil {
		return err
	}
	p.form.restore(in)
	return nil
}

func (p *sectionPanel[T, I]) remove(ctx context.Context, id int64, confirm Confirm) (bool, error) {
	return p.list.Delete(ctx, id, confirm)
}

func (p *sectionPanel[T, I]) snapshot() PanelSnapshot {
	st := p.container.State()
	s := PanelSnapshot{
		Key:       p.sec.Key,
		Title:     p.sec.Title,
		Mode:      st.Kind(),
		Creating:  st.Creating(),
		Status:    p.list.status,
		Items:     p.list.Items(),
		Error:     p.list.errMsg,
		Banner:    p.banner.get(),
		Deletable: p.sec.Deletable,
		CanAdd:    p.canAdd(),
	}
	if e := st.Entity(); e != nil {
		s.Selected = *e
	}
	if p.form != nil {
		s.Input = p.form.Input()
		s.Errors = p.form.Errors()
		s.Form = p.form.Status()
		s.Restored = p.form.restored
	}
	return s
}

// decodeInput fills in from the submitted JSON and attaches uploaded files.
func decodeInput[I forms.Input](in I, raw json.RawMessage, files map[string]*models.Attachment, op string) (I, error) {
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, in); err != nil {
			return in, utils.E(utils.CodeInvalidArgument, op, "Format isian tidak valid.", err)
		}
	}
	if len(files) == 0 {
		return in, nil
	}

	a, ok := any(in).(forms.Attachable)
	if !ok {
		return in, utils.E(utils.CodeInvalidArgument, op, "Bagian ini tidak menerima lampiran.", nil)
	}
	for field, f := range files {
		if !a.Attach(field, f) {
			return in, utils.EF(op, "Lampiran tidak dikenal.", map[string]string{field: "lampiran tidak dikenal"})
		}
	}
	return in, nil
}
