package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/api"
	"github.com/dmitrijs2005/shopadmin/internal/client/forms"
	"github.com/dmitrijs2005/shopadmin/internal/client/poller"
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

// askDefault shows the current value; an empty answer keeps it.
func (a *App) askDefault(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := a.ask(prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// newModal opens a form dialog with its own preview set.
func (a *App) newModal() (*forms.Modal, error) {
	previews, err := forms.NewPreviews(a.config.PreviewDir)
	if err != nil {
		return nil, err
	}
	return forms.NewModal(previews), nil
}

func (a *App) closeModal(ctx context.Context, m *forms.Modal) {
	if err := m.Close(); err != nil {
		a.logger.Warn(ctx, "failed to release previews", "error", err)
	}
}

// stage adds each path to the modal's previews and prints its preview URI.
func (a *App) stage(m *forms.Modal, paths []string) ([]forms.Preview, error) {
	staged := make([]forms.Preview, 0, len(paths))
	for _, p := range paths {
		pv, err := m.Previews().Add(p)
		if err != nil {
			return nil, err
		}
		printlnFn("Preview:", pv.URI)
		staged = append(staged, pv)
	}
	return staged, nil
}

// stageOne stages an optional single file; "" yields nil.
func (a *App) stageOne(m *forms.Modal, path string) (*forms.Preview, error) {
	if path == "" {
		return nil, nil
	}
	staged, err := a.stage(m, []string{path})
	if err != nil {
		return nil, err
	}
	return &staged[0], nil
}

// watch polls fetch on the configured schedule until the user presses Enter
// or ctx is cancelled.
func (a *App) watch(ctx context.Context, name string, fetch poller.Func, summary func() string) error {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := poller.New(name, a.config.PollSpec, func(ctx context.Context) error {
		if err := fetch(ctx); err != nil {
			return err
		}
		printlnFn(time.Now().Format(time.TimeOnly), summary())
		return nil
	},
		poller.WithImmediate(),
		poller.WithLogger(a.logger),
		poller.WithErrorHandler(func(err error) { printlnFn(api.Message(err, "Refresh failed: "+err.Error())) }),
	)
	if err != nil {
		return a.fail(ctx, err, "")
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(wctx) }()

	printlnFn(fmt.Sprintf("Watching %s (%s), press Enter to stop.", name, a.config.PollSpec))
	a.waitEnter(ctx)
	cancel()
	<-done
	printlnFn("Stopped watching", name)
	return nil
}

// waitEnter blocks until a line is read or ctx is done. On cancellation the
// pending read is abandoned; the REPL exits on the same ctx so nothing else
// reads from the shared reader afterwards.
func (a *App) waitEnter(ctx context.Context) {
	line := make(chan struct{})
	go func() {
		_, _ = a.reader.ReadString('\n')
		close(line)
	}()
	select {
	case <-line:
	case <-ctx.Done():
	}
}
