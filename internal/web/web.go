package web

import (
    "context"
    "embed"
    "html/template"
    "io"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/local/bookletcalc/internal/i18n"
    "github.com/local/bookletcalc/internal/imposition"
    "github.com/local/bookletcalc/internal/metrics"
    "github.com/local/bookletcalc/internal/statuscheck"
    "github.com/local/bookletcalc/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// History persists calculations. A nil History disables the history routes.
type History interface {
    Save(ctx context.Context, rec store.Record) error
    Get(ctx context.Context, id string) (store.Record, bool, error)
    Recent(ctx context.Context, n int) ([]store.Record, error)
}

// PageCounter counts the pages of an uploaded document.
type PageCounter interface {
    CountReader(r io.Reader) (int, error)
}

// StatusReporter reports dependency readiness.
type StatusReporter interface {
    Summary(ctx context.Context) statuscheck.Summary
}

type Options struct {
    History        History
    Counter        PageCounter
    Status         StatusReporter
    DefaultLang    i18n.Lang
    MaxUploadBytes int64
}

type Web struct {
    tpl         *template.Template
    history     History
    counter     PageCounter
    status      StatusReporter
    defaultLang i18n.Lang
    maxUpload   int64
    now         func() time.Time
    newID       func() string
}

func New(opts Options) *Web {
    tpl := template.Must(template.New("").Funcs(template.FuncMap{
        "t": func(msgs map[i18n.Key]string, key string) string { return msgs[i18n.Key(key)] },
    }).ParseFS(templateFS, "templates/*.html"))
    if opts.DefaultLang == "" { opts.DefaultLang = i18n.English }
    if opts.MaxUploadBytes <= 0 { opts.MaxUploadBytes = 64 << 20 }
    return &Web{
        tpl:         tpl,
        history:     opts.History,
        counter:     opts.Counter,
        status:      opts.Status,
        defaultLang: opts.DefaultLang,
        maxUpload:   opts.MaxUploadBytes,
        now:         time.Now,
        newID:       uuid.NewString,
    }
}

func (w *Web) RegisterRoutes(mux *http.ServeMux) {
    mux.HandleFunc("GET /health", func(wr http.ResponseWriter, r *http.Request) { wr.WriteHeader(http.StatusOK); _, _ = wr.Write([]byte("ok")) })
    mux.HandleFunc("GET /status", w.timed("/status", w.handleStatus))
    mux.Handle("GET /metrics", metrics.Handler())

    mux.HandleFunc("GET /{$}", w.timed("/", w.handleIndex))
    mux.HandleFunc("POST /{$}", w.timed("/", w.handleCalculateForm))
    mux.HandleFunc("POST /upload", w.timed("/upload", w.handleUploadForm))

    mux.HandleFunc("POST /api/imposition", w.timed("/api/imposition", w.handleImpose))
    mux.HandleFunc("POST /api/imposition/upload", w.timed("/api/imposition/upload", w.handleImposeUpload))
    mux.HandleFunc("GET /api/imposition/{id}", w.timed("/api/imposition/{id}", w.handleGetRecord))
    mux.HandleFunc("GET /api/history", w.timed("/api/history", w.handleHistory))
}

func (w *Web) timed(route string, next http.HandlerFunc) http.HandlerFunc {
    return func(wr http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next(wr, r)
        metrics.ObserveRequest(route, time.Since(start))
    }
}

// lang picks ?lang=, then a lang form field, then Accept-Language.
func (w *Web) lang(r *http.Request) i18n.Lang {
    if l, ok := i18n.Parse(r.URL.Query().Get("lang")); ok { return l }
    if r.Method == http.MethodPost {
        if l, ok := i18n.Parse(r.PostFormValue("lang")); ok { return l }
    }
    if h := r.Header.Get("Accept-Language"); h != "" { return i18n.Match(h) }
    return w.defaultLang
}

// result is one computed imposition as returned to clients.
type result struct {
    ID         string `json:"id,omitempty"`
    Pages      int    `json:"pages"`
    Sheets     int    `json:"sheets"`
    Blanks     int    `json:"blanks"`
    Front      string `json:"front"`
    Back       string `json:"back"`
    FrontPages []int  `json:"front_pages"`
    BackPages  []int  `json:"back_pages"`
    Summary    string `json:"summary"`
}

// impose runs the calculator for an already validated page count and
// records the result when a history store is configured.
func (w *Web) impose(ctx context.Context, pages int, source string, lang i18n.Lang) (result, error) {
    layout, err := imposition.Compute(pages)
    if err != nil { return result{}, err }
    metrics.ObserveCalculation(source, layout.Sheets)

    res := result{
        Pages:      layout.Pages,
        Sheets:     layout.Sheets,
        Blanks:     layout.Blanks,
        Front:      layout.FrontList(),
        Back:       layout.BackList(),
        FrontPages: layout.Front,
        BackPages:  layout.Back,
        Summary:    i18n.Summary(lang, layout),
    }
    if w.history != nil {
        res.ID = w.newID()
        rec := store.Record{ID: res.ID, Pages: res.Pages, Sheets: res.Sheets, Blanks: res.Blanks,
            Front: res.Front, Back: res.Back, Source: source, Lang: string(lang), CreatedAt: w.now()}
        if err := w.history.Save(ctx, rec); err != nil {
            metrics.IncHistoryError("save")
            log.Warn().Err(err).Str("id", res.ID).Msg("history save failed")
            res.ID = ""
        }
    }
    log.Info().Str("source", source).Int("pages", res.Pages).Int("sheets", res.Sheets).Int("blanks", res.Blanks).Str("id", res.ID).Msg("imposition computed")
    return res, nil
}

func (w *Web) handleStatus(wr http.ResponseWriter, r *http.Request) {
    if w.status == nil {
        writeJSON(wr, http.StatusOK, statuscheck.Summary{Calculator: statuscheck.Status{OK: true, Message: "Available"}})
        return
    }
    writeJSON(wr, http.StatusOK, w.status.Summary(r.Context()))
}
