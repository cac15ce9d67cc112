package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	msgLoadFailed = "Gagal memuat data. Silakan coba lagi."
	msgDeleted    = "Data berhasil dihapus."
)

type ListStatus string

const (
	ListIdle    ListStatus = "idle"
	ListLoading ListStatus = "loading"
	ListLoaded  ListStatus = "loaded"
	ListFailed  ListStatus = "failed"
)

// Confirm asks the candidate to confirm a destructive action.
type Confirm func(prompt string) bool

// List is the collection view of one section.
type List[T models.Entity] struct {
	deps
	key       string
	path      string
	itemPath  string
	deletable bool
	prompt    string
	deleted   string
	banner    *bannerSlot
	delay     time.Duration

	status ListStatus
	items  []T
	errMsg string
	stale  bool
}

func newList[T models.Entity, I forms.Input](sec *Section[T, I], d deps, banner *bannerSlot, delay time.Duration) *List[T] {
	deleted := sec.DeletedMessage
	if deleted == "" {
		deleted = msgDeleted
	}
	return &List[T]{
		deps:      d,
		key:       sec.Key,
		path:      sec.ListPath,
		itemPath:  sec.ItemPath,
		deletable: sec.Deletable,
		prompt:    sec.DeletePrompt,
		deleted:   deleted,
		banner:    banner,
		delay:     delay,
		status:    ListIdle,
	}
}

func (l *List[T]) Status() ListStatus { return l.status }

func (l *List[T]) Items() []T { return slices.Clone(l.items) }

func (l *List[T]) Err() string { return l.errMsg }

// MarkStale raises the refresh flag.
func (l *List[T]) MarkStale() { l.stale = true }

func (l *List[T]) Stale() bool { return l.stale }

func (l *List[T]) Find(id int64) (T, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *List[T]) index(id int64) int {
	return slices.IndexFunc(l.items, func(it T) bool { return it.EntityID() == id })
}

// Load issues one GET against the collection endpoint.
func (l *List[T]) Load(ctx context.Context) error {
	const op = "List.Load"

	l.status = ListLoading
	var raw json.RawMessage
	err := l.api.Get(ctx, l.path, &raw)
	if !l.life.alive() {
		return utils.E(utils.CodeCanceled, op, "", err)
	}

	var items []T
	if err == nil {
		if items, err = decodeItems[T](raw); err != nil {
			err = utils.E(utils.CodeInternal, op, msgLoadFailed, err)
		}
	}
	if err != nil {
		if apiclient.IsCanceled(err) {
			l.status = ListIdle
			return err
		}
		l.status = ListFailed
		l.errMsg = msgLoadFailed
		if utils.IsCode(err, utils.CodeTimeout) {
			l.errMsg = apiclient.MsgTimeout
		}
		l.log.WithError(err).WithField("section", l.key).Warn("load failed")
		return err
	}

	l.items = items
	l.status = ListLoaded
	l.errMsg = ""
	l.stale = false
	return nil
}

// Delete removes the item with id once the candidate confirms and the
// server agrees. A declined prompt sends nothing.
func (l *List[T]) Delete(ctx context.Context, id int64, confirm Confirm) (bool, error) {
	const op = "List.Delete"

	if !l.deletable {
		return false, utils.E(utils.CodeForbidden, op, "Data ini tidak dapat dihapus.", nil)
	}
	if l.index(id) < 0 {
		return false, utils.E(utils.CodeNotFound, op, "Data tidak ditemukan.", nil)
	}
	if confirm == nil || !confirm(l.prompt) {
		return false, nil
	}

	err := l.api.Send(ctx, http.MethodDelete, apiclient.ItemPath(l.itemPath, id), nil, nil)
	if !l.life.alive() {
		return false, utils.E(utils.CodeCanceled, op, "", err)
	}

	log := l.log.WithFields(logrus.Fields{"section": l.key, "entity_id": id})
	if err != nil {
		if apiclient.IsCanceled(err) {
			return false, err
		}
		msg := apiclient.ServerMessage(err, apiclient.MsgGeneric)
		log.WithError(err).Warn("delete failed")
		l.record(ctx, l.key, models.ActionDelete, id, err, msg)
		l.banner.show(BannerError, msg, l.delay, nil)
		return false, err
	}

	if i := l.index(id); i >= 0 {
		l.items = slices.Delete(l.items, i, i+1)
	}
	log.Info("section item deleted")
	l.record(ctx, l.key, models.ActionDelete, id, nil, l.deleted)
	l.banner.show(BannerSuccess, l.deleted, l.delay, nil)
	return true, nil
}

// decodeItems accepts an array, a single object or null.
func decodeItems[T models.Entity](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '{' {
		var one T
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		if one.EntityID() == 0 {
			return []T{}, nil
		}
		return []T{one}, nil
	}
	var many []T
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, err
	}
	if many == nil {
		many = []T{}
	}
	return many, nil
}
