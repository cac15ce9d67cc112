package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/apiclient"
	"github.com/codewithwan/erecruitment/internal/models"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	PathCompleteness = "/candidate/data-completeness"
	PathGenerateCV   = "/candidate/cv/generate"

	scopeCV = "cv"

	msgCheckFailed    = "Gagal memeriksa kelengkapan data."
	msgGenerateFailed = "Gagal membuat CV. Silakan coba lagi."
)

type GateState string

const (
	GateIdle       GateState = "idle"
	GateChecking   GateState = "checking"
	GateReady      GateState = "ready"
	GateError      GateState = "error"
	GateGenerating GateState = "generating"
)

// GateTiming holds the delays around CV generation.
type GateTiming struct {
	Banner  time.Duration // result banner
	OpenURL time.Duration // before the download url is opened
	Recheck time.Duration // after OpenURL, before completeness is fetched again
}

func DefaultGateTiming() GateTiming {
	return GateTiming{Banner: 5 * time.Second, OpenURL: time.Second, Recheck: 2 * time.Second}
}

// GateSnapshot is the renderable state of the completeness gate.
type GateSnapshot struct {
	State        GateState            `json:"state"`
	Completeness *models.Completeness `json:"completeness,omitempty"`
	Error        string               `json:"error,omitempty"`
	CanGenerate  bool                 `json:"can_generate"`
	LastCV       *models.GeneratedCV  `json:"last_cv,omitempty"`
	Banner       *Banner              `json:"banner,omitempty"`
}

// Gate checks data completeness and allows CV generation only when the
// profile is complete.
type Gate struct {
	deps
	timing GateTiming
	banner *bannerSlot

	state        GateState
	completeness *models.Completeness
	errMsg       string
	lastCV       *models.GeneratedCV
}

func newGate(d deps, timing GateTiming) *Gate {
	return &Gate{
		deps:   d,
		timing: timing,
		banner: newBannerSlot(scopeCV, d.life, d.emit),
		state:  GateIdle,
	}
}

func (g *Gate) State() GateState { return g.state }

func (g *Gate) CanGenerate() bool {
	return g.state == GateReady && g.completeness != nil && g.completeness.OverallComplete
}

// Check fetches the completeness report.
func (g *Gate) Check(ctx context.Context) error {
	const op = "Gate.Check"

	if g.state == GateGenerating {
		return utils.E(utils.CodeConflict, op, "CV sedang dibuat.", nil)
	}

	g.state = GateChecking
	var c models.Completeness
	err := g.api.Get(ctx, PathCompleteness, &c)
	if !g.life.alive() {
		return utils.E(utils.CodeCanceled, op, "", err)
	}
	if err != nil {
		g.state = GateError
		g.errMsg = apiclient.ServerMessage(err, msgCheckFailed)
		g.log.WithError(err).Warn("completeness check failed")
		return err
	}

	g.completeness = &c
	g.errMsg = ""
	g.state = GateReady
	return nil
}

// Generate requests a CV. It does nothing unless the profile is complete,
// and reports whether a request was made and succeeded.
func (g *Gate) Generate(ctx context.Context) (bool, error) {
	const op = "Gate.Generate"

	if !g.CanGenerate() {
		return false, nil
	}

	g.state = GateGenerating
	var cv models.GeneratedCV
	err := g.api.Get(ctx, PathGenerateCV, &cv)
	if !g.life.alive() {
		return false, utils.E(utils.CodeCanceled, op, "", err)
	}
	g.state = GateReady

	if err != nil {
		msg := apiclient.ServerMessage(err, msgGenerateFailed)
		g.log.WithError(err).Warn("cv generation failed")
		g.record(ctx, scopeCV, models.ActionGenerate, 0, err, msg)
		g.banner.show(BannerError, msg, g.timing.Banner, nil)
		return false, err
	}

	g.lastCV = &cv
	msg := fmt.Sprintf("CV berhasil dibuat: %s", cv.Filename)
	g.log.WithFields(logrus.Fields{"filename": cv.Filename}).Info("cv generated")
	g.record(ctx, scopeCV, models.ActionGenerate, 0, nil, msg)
	g.banner.show(BannerSuccess, msg, g.timing.Banner, nil)

	if cv.DownloadURL != "" {
		url := cv.DownloadURL
		g.life.after(g.timing.OpenURL, func() {
			g.emit.Emit(Event{Type: EventOpenURL, Scope: scopeCV, URL: url})
		})
	}
	g.life.after(g.timing.OpenURL+g.timing.Recheck, func() {
		_ = g.Check(g.life.ctx)
		g.emit.Emit(Event{Type: EventStateChanged, Scope: scopeCV})
	})
	return true, nil
}

func (g *Gate) snapshot() GateSnapshot {
	s := GateSnapshot{
		State:       g.state,
		Error:       g.errMsg,
		CanGenerate: g.CanGenerate(),
		Banner:      g.banner.get(),
	}
	if g.completeness != nil {
		c := *g.completeness
		s.Completeness = &c
	}
	if g.lastCV != nil {
		cv := *g.lastCV
		s.LastCV = &cv
	}
	return s
}
