// Command bookletcalc prints the two print passes for a booklet.
//
//	bookletcalc 12
//	bookletcalc -lang uz -json 30
//	bookletcalc -file s3://bucket/book.pdf
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	cfgpkg "github.com/local/bookletcalc/internal/config"
	"github.com/local/bookletcalc/internal/i18n"
	"github.com/local/bookletcalc/internal/imposition"
	logpkg "github.com/local/bookletcalc/internal/logger"
	"github.com/local/bookletcalc/internal/pagecount"
	"github.com/local/bookletcalc/internal/validate"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type counter interface {
	Count(ctx context.Context, ref string) (int, error)
}

var newCounter = func(cfg cfgpkg.Config) counter {
	return pagecount.New(pagecount.Options{
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		MaxBytes:        cfg.Server.MaxUploadBytes,
		Timeout:         cfg.Storage.FetchTimeout,
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := cfgpkg.Load()

	fs := flag.NewFlagSet("bookletcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	langFlag := fs.String("lang", cfg.Server.DefaultLang, "output language (en, uz)")
	asJSON := fs.Bool("json", false, "print the layout as JSON")
	file := fs.String("file", "", "count pages of a PDF (path, file://, http(s):// or s3:// ref)")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	if err := fs.Parse(args); err != nil {
		return exitInvalid
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logpkg.Init(logpkg.Options{Service: "bookletcalc-cli", Level: level, Console: stderr, Pretty: true})
	defer logpkg.Close()

	lang, ok := i18n.Parse(*langFlag)
	if !ok {
		lang = i18n.English
	}

	var (
		pages int
		err   error
	)
	if *file != "" {
		pages, err = newCounter(cfg).Count(ctx, *file)
		if err != nil {
			msg := i18n.T(lang, i18n.ErrPageCount)
			switch {
			case errors.Is(err, pagecount.ErrNotPDF):
				msg = i18n.T(lang, i18n.ErrNotPDF)
			case errors.Is(err, pagecount.ErrTooLarge):
				msg = i18n.T(lang, i18n.ErrTooLarge, cfg.Server.MaxUploadBytes>>20)
			}
			fmt.Fprintf(stderr, "%s: %s\n", i18n.T(lang, i18n.ErrorTitle), msg)
			log.Debug().Err(err).Str("file", *file).Msg("page count failed")
			return exitFailure
		}
		pages, err = validate.Range(pages)
	} else {
		pages, err = validate.PageCount(fs.Arg(0))
	}
	if err != nil {
		kind, _ := validate.KindOf(err)
		fmt.Fprintf(stderr, "%s: %s\n", i18n.T(lang, i18n.ErrorTitle), i18n.ValidationMessage(lang, kind))
		return exitInvalid
	}

	layout, err := imposition.Compute(pages)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	summary := i18n.Summary(lang, layout)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(struct {
			imposition.Layout
			Summary string `json:"summary"`
		}{layout, summary})
		return exitOK
	}
	fmt.Fprintf(stdout, "%s: %s\n", i18n.T(lang, i18n.FrontPassTitle), layout.FrontList())
	fmt.Fprintf(stdout, "%s: %s\n", i18n.T(lang, i18n.BackPassTitle), layout.BackList())
	fmt.Fprintln(stdout, summary)
	log.Debug().Int("pages", pages).Int("sheets", layout.Sheets).Msg("imposition computed")
	return exitOK
}
