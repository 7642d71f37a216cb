package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"github.com/jask/userdesk/internal/config"
	"github.com/jask/userdesk/internal/remote"
	"github.com/jask/userdesk/internal/tui"
	"github.com/jask/userdesk/internal/widget"
)

// Options select how the collection is shown.
type Options struct {
	Dump bool `long:"dump" description:"Print the collection as text and exit instead of starting the TUI"`
}

func main() {
	ctx := context.Background()

	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// the terminal belongs to the TUI; logs go to a file or nowhere
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, cfg.Log.Prefix)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer f.Close()
	} else if !opts.Dump {
		log.SetOutput(io.Discard)
	}

	client, err := remote.New(cfg.Remote.BaseURL, cfg.Remote.Collection,
		remote.WithHTTPClient(&http.Client{Timeout: cfg.Remote.Timeout}),
		remote.WithUserAgent(cfg.Remote.UserAgent),
	)
	if err != nil {
		log.Fatalf("remote: %v", err)
	}
	log.Printf("collection %s", client.URL())

	w := widget.New(client, widget.WithPlaceholder(cfg.UI.Placeholder))
	if opts.Dump {
		if err := dump(ctx, w, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	p := tea.NewProgram(tui.New(ctx, w, tui.Options{
		NoticeDuration: cfg.UI.NoticeDuration,
		RemoteURL:      client.URL(),
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

// dump loads the collection once and writes it as text.
func dump(ctx context.Context, w *widget.Widget, out io.Writer) error {
	if err := w.Load(ctx); err != nil {
		return err
	}
	return w.WriteText(out)
}
