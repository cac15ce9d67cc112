package wizard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

// profilePanel is the personal-data form. It has no list: the form is
// always open, prefilled from the stored profile.
type profilePanel struct {
	deps
	sec    *Section[models.Profile, *forms.PersonalDataInput]
	delay  time.Duration
	banner *bannerSlot

	profile *models.Profile
	status  ListStatus
	errMsg  string
	form    *Form[models.Profile, *forms.PersonalDataInput]
}

func newProfilePanel(sec *Section[models.Profile, *forms.PersonalDataInput], d deps, delay time.Duration) *profilePanel {
	p := &profilePanel{
		deps:   d,
		sec:    sec,
		delay:  delay,
		banner: newBannerSlot(sec.Key, d.life, d.emit),
		status: ListIdle,
	}
	p.resetForm()
	return p
}

func (p *profilePanel) key() string { return p.sec.Key }

func (p *profilePanel) load(ctx context.Context) error {
	const op = "Profile.Load"

	p.status = ListLoading
	var raw json.RawMessage
	err := p.api.Get(ctx, p.sec.ListPath, &raw)
	if !p.life.alive() {
		return utils.E(utils.CodeCanceled, op, "", err)
	}

	var found []models.Profile
	if err == nil {
		if found, err = decodeItems[models.Profile](raw); err != nil {
			err = utils.E(utils.CodeInternal, op, msgLoadFailed, err)
		}
	}
	if err != nil {
		if apiclient.IsCanceled(err) {
			p.status = ListIdle
			return err
		}
		p.status = ListFailed
		p.errMsg = msgLoadFailed
		if utils.IsCode(err, utils.CodeTimeout) {
			p.errMsg = apiclient.MsgTimeout
		}
		p.log.WithError(err).WithField("section", p.sec.Key).Warn("load failed")
		return err
	}

	p.profile = nil
	if len(found) > 0 {
		p.profile = &found[0]
	}
	p.status = ListLoaded
	p.errMsg = ""
	p.resetForm()
	return nil
}

func (p *profilePanel) resetForm() {
	p.form = newForm(p.sec, p.deps, p.banner, p.delay, p.profile, func(models.Profile) {
		_ = p.load(p.life.ctx)
		p.emit.Emit(Event{Type: EventStateChanged, Scope: p.sec.Key})
	})
}

func (p *profilePanel) add() error {
	return utils.E(utils.CodeConflict, "Profile.Add", "Data pribadi diisi langsung pada formulir.", nil)
}

func (p *profilePanel) edit(int64) error { return p.add() }

func (p *profilePanel) back(context.Context) error { return nil }

func (p *profilePanel) submit(ctx context.Context, raw json.RawMessage, files map[string]*models.Attachment) error {
	in, err := decodeInput(p.sec.NewInput(p.profile), raw, files, "Profile.Submit")
	if err != nil {
		return err
	}
	return p.form.Submit(ctx, in)
}

func (p *profilePanel) restore(raw json.RawMessage) error {
	in, err := decodeInput(p.sec.NewInput(p.profile), raw, nil, "Profile.Restore")
	if err != nil {
		return err
	}
	p.form.restore(in)
	return nil
}

func (p *profilePanel) remove(context.Context, int64, Confirm) (bool, error) {
	return false, utils.E(utils.CodeForbidden, "Profile.Remove", "Data ini tidak dapat dihapus.", nil)
}

func (p *profilePanel) snapshot() PanelSnapshot {
	s := PanelSnapshot{
		Key:    p.sec.Key,
		Title:  p.sec.Title,
		Mode:   KindEdit,
		Status: p.status,
		Items:  []models.Profile{},
		Error:  p.errMsg,
		Banner: p.banner.get(),
		Input:  p.form.Input(),
		Errors: p.form.Errors(),
		Form:   p.form.Status(),
	}
	s.Restored = p.form.restored
	if p.profile != nil {
		s.Selected = *p.profile
		s.Items = []models.Profile{*p.profile}
	} else {
		s.Creating = true
	}
	return s
}
