package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
)

// printer writes rendered Markdown to out. Calls may come from several
// watcher goroutines.
type printer struct {
	mu     sync.Mutex
	out    io.Writer
	render func(string) (string, error)
}

func newPrinter(out io.Writer, plain bool) (*printer, error) {
	p := &printer{out: out}
	if plain {
		p.render = func(md string) (string, error) { return md, nil }
		return p, nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	p.render = r.Render
	return p, nil
}

func (p *printer) print(md string) error {
	text, err := p.render(md)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = io.WriteString(p.out, text)
	return err
}
