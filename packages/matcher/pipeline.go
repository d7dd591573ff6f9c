package matcher

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/snapmatch/packages/snapshot"
	"github.com/abdul-hamid-achik/snapmatch/packages/template"
	"github.com/sirupsen/logrus"
)

// attempt holds the state of one match. It is owned by a single goroutine.
type attempt struct {
	req   Request
	mode  snapshot.UpdateMode
	state State
	latch *latch
	log   logrus.FieldLogger

	rendered string
	loc      snapshot.Location
	located  bool
	existed  bool
	baseline string
	wrote    bool
}

type step struct {
	state State
	run   func(*attempt) error
}

func (m *Matcher) steps() []step {
	return []step{
		{Rendering, m.render},
		{EnsuringDirectory, m.ensure},
		{ReadingExisting, m.readExisting},
		{Writing, m.write},
		{Comparing, m.compare},
	}
}

func (m *Matcher) run(ctx context.Context, a *attempt) {
	defer func() {
		if r := recover(); r != nil {
			a.fail(fmt.Errorf("FATAL: %v", r))
		}
	}()

	for _, s := range m.steps() {
		if a.latch.resolved() {
			return
		}
		if err := ctx.Err(); err != nil {
			a.fail(fmt.Errorf("FATAL: match aborted while %s: %w", s.state, err))
			return
		}

		a.state = s.state
		a.log.WithField("state", s.state).Debug("match step")
		if err := s.run(a); err != nil {
			a.fail(err)
			return
		}
	}
}

func (a *attempt) fail(err error) {
	r := fatalResult(err)
	if a.located {
		r.Path = a.loc.FullPath
	}
	if a.latch.resolve(r) {
		a.log.WithFields(logrus.Fields{
			"state": a.state,
			"error": err,
		}).Warn("snapshot match failed")
		a.state = Resolved
	}
}

func (a *attempt) settle(r *Result) {
	r.Path = a.loc.FullPath
	r.Created = a.wrote && !a.existed
	r.Updated = a.wrote && a.existed
	if a.latch.resolve(r) {
		a.log.WithFields(logrus.Fields{
			"path": r.Path,
			"pass": r.Pass,
		}).Debug("snapshot match resolved")
		a.state = Resolved
	}
}

func (m *Matcher) render(a *attempt) error {
	out, err := template.Render(a.req.Content, a.req.Template, a.req.Label)
	if err != nil {
		return err
	}
	a.rendered = out
	return nil
}

func (m *Matcher) ensure(a *attempt) error {
	a.loc = snapshot.Resolve(a.req.Target, a.req.Template, a.req.TestFile)
	a.located = true
	return m.store.Ensure(a.loc)
}

func (m *Matcher) readExisting(a *attempt) error {
	if a.mode == snapshot.UpdateAll {
		existed, err := m.store.Exists(a.loc)
		if err != nil {
			return err
		}
		a.existed = existed
		return nil
	}

	content, existed, err := m.store.ReadExisting(a.loc)
	if err != nil {
		return err
	}
	a.existed = existed
	a.baseline = content
	return nil
}

func (m *Matcher) write(a *attempt) error {
	if a.existed && a.mode != snapshot.UpdateAll {
		return nil
	}

	stored, err := m.store.WriteAndReread(a.loc, a.rendered)
	if err != nil {
		return err
	}
	a.baseline = stored
	a.wrote = true
	return nil
}

func (m *Matcher) compare(a *attempt) error {
	base := a.loc.BaseName

	if a.baseline == a.rendered {
		existed := a.existed
		a.settle(NewResult(true, func() string {
			if existed {
				return fmt.Sprintf("ERROR: Old content of file %q was expected to differ from new content", base)
			}
			return fmt.Sprintf("ERROR: File %q was expected to already exist with some different content", base)
		}))
		return nil
	}

	stored, rendered := a.baseline, a.rendered
	a.settle(NewResult(false, func() string {
		return fmt.Sprintf("ERROR: Old content of file %q was expected to equal the new content:\n%s",
			base, m.presenter.Present(stored, rendered))
	}))
	return nil
}
