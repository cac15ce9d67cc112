// Package wizard is the candidate profile wizard: one page per signed-in
// candidate holding every section's list, form and banner, plus the
// completeness gate that guards CV generation.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

var ErrPageClosed = errors.New("wizard: page closed")

const openParallel = 4

type Options struct {
	Clock       Clock
	Emitter     Emitter
	Recorder    Recorder
	Logger      logrus.FieldLogger
	BannerDelay time.Duration
	Gate        GateTiming
}

// Snapshot is the renderable state of a whole page.
type Snapshot struct {
	Active       string                   `json:"active"`
	Sidebar      []string                 `json:"sidebar"`
	Sections     map[string]PanelSnapshot `json:"sections"`
	Additional   []string                 `json:"additional"`
	Completeness GateSnapshot             `json:"completeness"`
}

// Page is safe for concurrent use. Every method that talks to the API
// holds the page for the duration of the call.
type Page struct {
	mu     sync.Mutex
	life   *lifetime
	log    *logrus.Entry
	active string

	personal   *profilePanel
	panels     map[string]panel
	order      []string
	additional *Aggregator
	gate       *Gate
}

func NewPage(api apiclient.API, opts Options) *Page {
	if opts.Emitter == nil {
		opts.Emitter = discard
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.BannerDelay <= 0 {
		opts.BannerDelay = DefaultBannerDelay
	}
	if opts.Gate == (GateTiming{}) {
		opts.Gate = DefaultGateTiming()
	}

	p := &Page{active: SectionPersonalData, panels: map[string]panel{}}
	p.life = newLifetime(context.Background(), opts.Clock, &p.mu)
	p.log = logger.Component(opts.Logger, "wizard")

	d := deps{api: api, life: p.life, emit: opts.Emitter, rec: opts.Recorder, log: p.log}
	delay := opts.BannerDelay

	p.personal = newProfilePanel(personalDataSection, d, delay)
	p.additional = newAggregator(d, delay)
	p.add(
		p.personal,
		newSectionPanel(educationSection, d, delay),
		newSectionPanel(workExperienceSection, d, delay),
		newSectionPanel(achievementSection, d, delay),
		newSectionPanel(organizationSection, d, delay),
		newSectionPanel(socialMediaSection, d, delay),
	)
	for _, np := range p.additional.panels {
		p.add(np)
	}
	p.gate = newGate(d, opts.Gate)
	return p
}

func (p *Page) add(panels ...panel) {
	for _, pn := range panels {
		p.panels[pn.key()] = pn
		p.order = append(p.order, pn.key())
	}
}

// begin locks the page and scopes ctx to its lifetime. The returned func
// must be deferred.
func (p *Page) begin(ctx context.Context) (context.Context, func(), error) {
	p.mu.Lock()
	if !p.life.alive() {
		p.mu.Unlock()
		return nil, nil, utils.E(utils.CodeCanceled, "Page", "Halaman sudah ditutup.", ErrPageClosed)
	}
	ctx, cancel := p.life.bind(ctx)
	return ctx, func() {
		cancel()
		p.mu.Unlock()
	}, nil
}

func (p *Page) panel(key string) (panel, error) {
	pn, ok := p.panels[key]
	if !ok {
		return nil, utils.E(utils.CodeNotFound, "Page", "Bagian tidak dikenal.", nil)
	}
	return pn, nil
}

// Open loads every section and checks completeness, at most openParallel
// requests at a time. Failures are kept in the state of the section that
// failed and joined into the result.
func (p *Page) Open(ctx context.Context) error {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	var (
		mu   sync.Mutex
		errs []error
	)
	collect := func(err error) {
		if err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}

	// every load owns its panel; the gate only reads the completeness endpoint
	var g errgroup.Group
	g.SetLimit(openParallel)
	for _, key := range p.order {
		pn := p.panels[key]
		g.Go(func() error {
			collect(pn.load(ctx))
			return nil
		})
	}
	g.Go(func() error {
		collect(p.gate.Check(ctx))
		return nil
	})
	_ = g.Wait()
	return errors.Join(errs...)
}

// Activate switches the sidebar to key.
func (p *Page) Activate(key string) error {
	_, done, err := p.begin(context.Background())
	if err != nil {
		return err
	}
	defer done()

	if !slices.Contains(Sidebar, key) {
		return utils.E(utils.CodeNotFound, "Page.Activate", "Bagian tidak dikenal.", nil)
	}
	p.active = key
	return nil
}

func (p *Page) Add(key string) error {
	_, done, err := p.begin(context.Background())
	if err != nil {
		return err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.add()
}

func (p *Page) Edit(key string, id int64) error {
	_, done, err := p.begin(context.Background())
	if err != nil {
		return err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.edit(id)
}

// Back leaves the form of key and refetches the list if it is stale.
func (p *Page) Back(ctx context.Context, key string) error {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.back(ctx)
}

// Submit decodes raw (and files) into the open form of key and submits it.
func (p *Page) Submit(ctx context.Context, key string, raw json.RawMessage, files map[string]*models.Attachment) error {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.submit(ctx, raw, files)
}

// Restore fills the open form of key from a saved draft. The input is
// validated only when it is submitted.
func (p *Page) Restore(key string, raw json.RawMessage) error {
	_, done, err := p.begin(context.Background())
	if err != nil {
		return err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.restore(raw)
}

func (p *Page) Delete(ctx context.Context, key string, id int64, confirm Confirm) (bool, error) {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return false, err
	}
	defer done()

	pn, err := p.panel(key)
	if err != nil {
		return false, err
	}
	return pn.remove(ctx, id, confirm)
}

// Refresh reloads key. "additional" reloads every named resource.
func (p *Page) Refresh(ctx context.Context, key string) error {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	if key == SectionAdditional {
		return p.additional.load(ctx)
	}
	pn, err := p.panel(key)
	if err != nil {
		return err
	}
	return pn.load(ctx)
}

func (p *Page) CheckCompleteness(ctx context.Context) error {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer done()
	return p.gate.Check(ctx)
}

// GenerateCV is a no-op returning false while the profile is incomplete.
func (p *Page) GenerateCV(ctx context.Context) (bool, error) {
	ctx, done, err := p.begin(ctx)
	if err != nil {
		return false, err
	}
	defer done()
	return p.gate.Generate(ctx)
}

func (p *Page) Snapshot() (Snapshot, error) {
	_, done, err := p.begin(context.Background())
	if err != nil {
		return Snapshot{}, err
	}
	defer done()

	s := Snapshot{
		Active:       p.active,
		Sidebar:      slices.Clone(Sidebar),
		Sections:     make(map[string]PanelSnapshot, len(p.panels)),
		Additional:   p.additional.Keys(),
		Completeness: p.gate.snapshot(),
	}
	for key, pn := range p.panels {
		s.Sections[key] = pn.snapshot()
	}
	return s, nil
}

// Close cancels in-flight requests and pending timers. Later calls fail
// with ErrPageClosed.
func (p *Page) Close() {
	p.life.close()
	p.log.Debug("page closed")
}

func (p *Page) Closed() bool { return !p.life.alive() }
