package wizard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
	"github.com/codewithwan/erecruitment/internal/validation"
)

const DefaultBannerDelay = 3000 * time.Millisecond

type FormStatus string

const (
	FormEditing    FormStatus = "editing"
	FormSubmitting FormStatus = "submitting"
	FormSaved      FormStatus = "saved" // waiting for the success banner to clear
)

// Recorder keeps mutation outcomes for diagnostics.
type Recorder interface {
	Record(ctx context.Context, a models.Activity)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.Activity) {}

// deps are shared by every component of one page.
type deps struct {
	api  apiclient.API
	life *lifetime
	emit Emitter
	rec  Recorder
	log  *logrus.Entry
}

func (d deps) record(ctx context.Context, section string, action models.ActivityAction, id int64, err error, msg string) {
	a := models.Activity{Section: section, Action: action, EntityID: id, OK: err == nil, Message: msg}
	if err != nil {
		a.Code = string(utils.CodeOf(err))
	}
	d.rec.Record(ctx, a)
}

// Form is the edit form of one section entity. A nil entity creates.
type Form[T models.Entity, I forms.Input] struct {
	deps
	sec    *Section[T, I]
	banner *bannerSlot
	delay  time.Duration

	entity    *T
	input     I
	errs      validation.Errors
	status    FormStatus
	restored  bool
	onSuccess func(saved T)
}

func newForm[T models.Entity, I forms.Input](sec *Section[T, I], d deps, banner *bannerSlot, delay time.Duration, entity *T, onSuccess func(T)) *Form[T, I] {
	return &Form[T, I]{
		deps:      d,
		sec:       sec,
		banner:    banner,
		delay:     delay,
		entity:    entity,
		input:     sec.NewInput(entity),
		status:    FormEditing,
		onSuccess: onSuccess,
	}
}

func (f *Form[T, I]) Creating() bool {
	return f.entity == nil || (*f.entity).EntityID() == 0
}

func (f *Form[T, I]) Input() I { return f.input }

func (f *Form[T, I]) Status() FormStatus { return f.status }

func (f *Form[T, I]) restore(in I) {
	if f.status != FormEditing {
		return
	}
	f.input = in
	f.errs = nil
	f.restored = true
}

func (f *Form[T, I]) Errors() validation.Errors {
	out := validation.Errors{}
	out.Merge(f.errs)
	return out
}

// Submit validates in and, when valid, issues exactly one create or update.
// Invalid input never reaches the network.
func (f *Form[T, I]) Submit(ctx context.Context, in I) error {
	const op = "Form.Submit"

	if f.status != FormEditing {
		return utils.E(utils.CodeConflict, op, "Formulir sedang diproses.", nil)
	}

	f.input = in
	errs := in.Validate(validation.Context{Now: f.life.clock.Now(), Creating: f.Creating()})
	if !errs.Empty() {
		f.errs = errs
		return errs.Err(op)
	}
	f.errs = nil

	p := in.Payload()
	method, path := f.target(&p)
	action, id := models.ActionUpdate, int64(0)
	if f.Creating() {
		action = models.ActionCreate
	} else {
		id = (*f.entity).EntityID()
	}

	f.status = FormSubmitting
	var saved T
	var out any = &saved
	if f.sec.Upsert {
		out = nil // replies with a redirect page, not the entity
	}
	err := f.api.Send(ctx, method, path, &p, out)
	f.status = FormEditing

	if !f.life.alive() {
		return utils.E(utils.CodeCanceled, op, "", err)
	}

	log := f.log.WithFields(logrus.Fields{"section": f.sec.Key, "method": method, "path": path})
	if err != nil {
		if apiclient.IsCanceled(err) {
			return err
		}
		msg := apiclient.FormMessage(err)
		var ae *utils.AppError
		if errors.As(err, &ae) && len(ae.Fields) > 0 {
			f.errs = validation.Errors{}
			f.errs.Merge(ae.Fields)
		}
		log.WithError(err).Warn("submit failed")
		f.record(ctx, f.sec.Key, action, id, err, msg)
		f.banner.show(BannerError, msg, f.delay, nil)
		f.banner.scrollTop()
		return err
	}

	if id == 0 {
		id = saved.EntityID()
	}
	log.WithField("entity_id", id).Info("section saved")
	f.record(ctx, f.sec.Key, action, id, nil, f.sec.SavedMessage)

	f.status = FormSaved
	f.banner.show(BannerSuccess, f.sec.SavedMessage, f.delay, func() {
		f.status = FormEditing
		if f.onSuccess != nil {
			f.onSuccess(saved)
		}
	})
	f.banner.scrollTop()
	return nil
}

func (f *Form[T, I]) target(p *apiclient.Payload) (method, path string) {
	if f.sec.Upsert || f.Creating() {
		return http.MethodPost, f.sec.CreatePath
	}
	path = apiclient.ItemPath(f.sec.ItemPath, (*f.entity).EntityID())
	if p.Multipart {
		p.Set(apiclient.MethodOverrideField, http.MethodPut)
		return http.MethodPost, path
	}
	return http.MethodPut, path
}
