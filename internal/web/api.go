package web

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/rs/zerolog/log"

    "github.com/local/bookletcalc/internal/i18n"
    "github.com/local/bookletcalc/internal/metrics"
    "github.com/local/bookletcalc/internal/pagecount"
    "github.com/local/bookletcalc/internal/validate"
)

type imposeReq struct {
    // Pages accepts a JSON number or a string so clients can forward raw input.
    Pages json.RawMessage `json:"pages"`
    Lang  string          `json:"lang"`
}

type apiError struct {
    Kind    string `json:"kind"`
    Message string `json:"message"`
}

func (w *Web) handleImpose(wr http.ResponseWriter, r *http.Request) {
    defer r.Body.Close()
    var req imposeReq
    if err := json.NewDecoder(http.MaxBytesReader(wr, r.Body, 1<<20)).Decode(&req); err != nil {
        writeError(wr, http.StatusBadRequest, "invalid_json", "invalid json")
        return
    }
    lang := w.lang(r)
    if l, ok := i18n.Parse(req.Lang); ok { lang = l }

    pages, err := validate.PageCount(rawPages(req.Pages))
    if err != nil {
        w.writeValidation(wr, lang, err)
        return
    }
    res, err := w.impose(r.Context(), pages, "api", lang)
    if err != nil {
        writeError(wr, http.StatusInternalServerError, "internal", err.Error())
        return
    }
    writeJSON(wr, http.StatusOK, res)
}

func (w *Web) handleImposeUpload(wr http.ResponseWriter, r *http.Request) {
    pages, lang, status, apiErr := w.countUpload(wr, r)
    if apiErr != nil {
        writeJSON(wr, status, map[string]any{"error": apiErr})
        return
    }
    res, err := w.impose(r.Context(), pages, "upload", lang)
    if err != nil {
        writeError(wr, http.StatusInternalServerError, "internal", err.Error())
        return
    }
    writeJSON(wr, http.StatusOK, res)
}

// countUpload reads the multipart "file" field and returns its validated page
// count, or the HTTP status and error to report.
func (w *Web) countUpload(wr http.ResponseWriter, r *http.Request) (int, i18n.Lang, int, *apiError) {
    r.Body = http.MaxBytesReader(wr, r.Body, w.maxUpload+1<<20)
    if err := r.ParseMultipartForm(32 << 20); err != nil {
        lang := w.lang(r)
        var maxErr *http.MaxBytesError
        if errors.As(err, &maxErr) {
            return 0, lang, http.StatusRequestEntityTooLarge, w.tooLarge(lang)
        }
        return 0, lang, http.StatusBadRequest, &apiError{Kind: "invalid_form", Message: "invalid multipart form"}
    }
    lang := w.lang(r)
    if w.counter == nil {
        return 0, lang, http.StatusNotImplemented, &apiError{Kind: "unavailable", Message: "page counting is not configured"}
    }
    file, hdr, err := r.FormFile("file")
    if err != nil {
        return 0, lang, http.StatusBadRequest, &apiError{Kind: "missing_file", Message: "missing file"}
    }
    defer file.Close()

    n, err := w.counter.CountReader(file)
    switch {
    case errors.Is(err, pagecount.ErrNotPDF):
        return 0, lang, http.StatusUnsupportedMediaType, &apiError{Kind: "not_pdf", Message: i18n.T(lang, i18n.ErrNotPDF)}
    case errors.Is(err, pagecount.ErrTooLarge):
        return 0, lang, http.StatusRequestEntityTooLarge, w.tooLarge(lang)
    case err != nil:
        log.Warn().Err(err).Str("file", hdr.Filename).Msg("page count failed")
        return 0, lang, http.StatusUnprocessableEntity, &apiError{Kind: "page_count", Message: i18n.T(lang, i18n.ErrPageCount)}
    }
    if _, err := validate.Range(n); err != nil {
        kind, _ := validate.KindOf(err)
        metrics.IncValidationFailure(string(kind))
        return 0, lang, http.StatusUnprocessableEntity, &apiError{Kind: string(kind), Message: i18n.ValidationMessage(lang, kind)}
    }
    return n, lang, http.StatusOK, nil
}

func (w *Web) tooLarge(lang i18n.Lang) *apiError {
    return &apiError{Kind: "too_large", Message: i18n.T(lang, i18n.ErrTooLarge, w.maxUpload>>20)}
}

func (w *Web) handleGetRecord(wr http.ResponseWriter, r *http.Request) {
    if w.history == nil {
        writeError(wr, http.StatusNotFound, "not_found", "history disabled")
        return
    }
    rec, ok, err := w.history.Get(r.Context(), r.PathValue("id"))
    if err != nil {
        metrics.IncHistoryError("get")
        writeError(wr, http.StatusBadGateway, "history", "history unavailable")
        return
    }
    if !ok {
        writeError(wr, http.StatusNotFound, "not_found", "record not found")
        return
    }
    writeJSON(wr, http.StatusOK, rec)
}

func (w *Web) handleHistory(wr http.ResponseWriter, r *http.Request) {
    if w.history == nil {
        writeError(wr, http.StatusNotFound, "not_found", "history disabled")
        return
    }
    limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
    if limit <= 0 { limit = 20 }
    recs, err := w.history.Recent(r.Context(), limit)
    if err != nil {
        metrics.IncHistoryError("recent")
        writeError(wr, http.StatusBadGateway, "history", "history unavailable")
        return
    }
    writeJSON(wr, http.StatusOK, map[string]any{"records": recs})
}

func (w *Web) writeValidation(wr http.ResponseWriter, lang i18n.Lang, err error) {
    kind, _ := validate.KindOf(err)
    metrics.IncValidationFailure(string(kind))
    writeError(wr, http.StatusUnprocessableEntity, string(kind), i18n.ValidationMessage(lang, kind))
}

// rawPages returns the JSON value as the text a user would have typed.
func rawPages(raw json.RawMessage) string {
    s := strings.TrimSpace(string(raw))
    if s == "" || s == "null" { return "" }
    if strings.HasPrefix(s, `"`) {
        var str string
        if err := json.Unmarshal(raw, &str); err == nil { return str }
    }
    return s
}

func writeError(wr http.ResponseWriter, status int, kind, msg string) {
    writeJSON(wr, status, map[string]any{"error": apiError{Kind: kind, Message: msg}})
}

func writeJSON(wr http.ResponseWriter, status int, v any) {
    wr.Header().Set("Content-Type", "application/json")
    wr.WriteHeader(status)
    _ = json.NewEncoder(wr).Encode(v)
}
