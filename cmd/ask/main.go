// Command ask is a terminal front end for a docquery server.
//
// Without -q it opens an interactive page. With -q it asks one question and
// prints the answer, sources and usage to stdout, as text or as HTML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github/itish2003/docquery/client"
	"github/itish2003/docquery/tui"
)

var (
	serverURL = flag.String("server", "http://localhost:5000", "docquery server URL")
	question  = flag.String("q", "", "Ask one question and exit")
	mode      = flag.String("mode", "", "Switch to this mode (technical or summary) first")
	format    = flag.String("format", "text", "Output format for -q: text or html")
	escape    = flag.Bool("escape", false, "HTML-escape server text in -format html")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewAPI(*serverURL, nil)

	if *question == "" {
		if *mode != "" {
			if err := api.SwitchMode(ctx, *mode); err != nil {
				fmt.Fprintln(os.Stderr, client.AlertMessage(err))
				os.Exit(1)
			}
		}
		if err := tui.Run(ctx, api); err != nil {
			fmt.Fprintf(os.Stderr, "ask: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var render client.Renderer
	switch *format {
	case "text":
		render = client.TextRenderer{}
	case "html":
		render = client.HTMLRenderer{Escape: *escape}
	default:
		fmt.Fprintf(os.Stderr, "ask: unknown format %q\n", *format)
		os.Exit(2)
	}

	if *mode != "" {
		switcher := client.NewModeSwitcher(api, client.NopIndicator{}, client.WriterAlerter{W: os.Stderr})
		if err := switcher.Switch(ctx, *mode); err != nil {
			os.Exit(1)
		}
	}

	titled := func(title string) client.Region {
		if *format == "html" {
			return client.NewWriterRegion(os.Stdout, "")
		}
		return client.NewWriterRegion(os.Stdout, title)
	}
	submitter := client.NewQuerySubmitter(api, client.Page{
		Loading:  client.NopIndicator{},
		Response: titled("Answer"),
		Sources:  titled("Sources"),
		Stats:    titled("Usage"),
	}, render)

	if res := submitter.Submit(ctx, *question); !res.OK() {
		os.Exit(1)
	}
}
