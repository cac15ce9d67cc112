package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/codewithwan/erecruitment/internal/forms"
	"github.com/codewithwan/erecruitment/internal/models"
)

type namedPanel = sectionPanel[models.NamedEntity, *forms.NamedInput]

// Aggregator hosts the additional-data resources on one view. Each
// resource is an independent named-entity panel.
type Aggregator struct {
	panels []*namedPanel
}

func newAggregator(d deps, delay time.Duration) *Aggregator {
	a := &Aggregator{}
	for _, r := range additionalResources {
		a.panels = append(a.panels, newSectionPanel(namedSection(r), d, delay))
	}
	return a
}

func (a *Aggregator) Keys() []string {
	keys := make([]string, 0, len(a.panels))
	for _, p := range a.panels {
		keys = append(keys, p.key())
	}
	return keys
}

// load fetches every resource; one failure does not stop the others.
func (a *Aggregator) load(ctx context.Context) error {
	var errs []error
	for _, p := range a.panels {
		if err := p.load(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
