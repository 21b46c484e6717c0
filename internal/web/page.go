package web

import (
    "net/http"
    "strconv"

    "github.com/rs/zerolog/log"

    "github.com/local/bookletcalc/internal/i18n"
    "github.com/local/bookletcalc/internal/metrics"
    "github.com/local/bookletcalc/internal/validate"
)

type pageData struct {
    Lang   i18n.Lang
    Msgs   map[i18n.Key]string
    Input  string
    Error  string
    Result *result
}

func (w *Web) render(wr http.ResponseWriter, status int, data pageData) {
    wr.Header().Set("Content-Type", "text/html; charset=utf-8")
    wr.WriteHeader(status)
    if err := w.tpl.ExecuteTemplate(wr, "index.html", data); err != nil {
        log.Error().Err(err).Msg("render index")
    }
}

func (w *Web) page(lang i18n.Lang) pageData {
    return pageData{Lang: lang, Msgs: i18n.Messages(lang)}
}

func (w *Web) handleIndex(wr http.ResponseWriter, r *http.Request) {
    w.render(wr, http.StatusOK, w.page(w.lang(r)))
}

func (w *Web) handleCalculateForm(wr http.ResponseWriter, r *http.Request) {
    if err := r.ParseForm(); err != nil {
        http.Error(wr, "invalid form", http.StatusBadRequest)
        return
    }
    lang := w.lang(r)
    data := w.page(lang)
    data.Input = r.PostForm.Get("pages")

    pages, err := validate.PageCount(data.Input)
    if err != nil {
        kind, _ := validate.KindOf(err)
        metrics.IncValidationFailure(string(kind))
        data.Error = i18n.ValidationMessage(lang, kind)
        w.render(wr, http.StatusUnprocessableEntity, data)
        return
    }
    res, err := w.impose(r.Context(), pages, "form", lang)
    if err != nil {
        data.Error = err.Error()
        w.render(wr, http.StatusInternalServerError, data)
        return
    }
    data.Result = &res
    w.render(wr, http.StatusOK, data)
}

func (w *Web) handleUploadForm(wr http.ResponseWriter, r *http.Request) {
    pages, lang, status, apiErr := w.countUpload(wr, r)
    data := w.page(lang)
    if apiErr != nil {
        data.Error = apiErr.Message
        w.render(wr, status, data)
        return
    }
    res, err := w.impose(r.Context(), pages, "upload", lang)
    if err != nil {
        data.Error = err.Error()
        w.render(wr, http.StatusInternalServerError, data)
        return
    }
    data.Input = strconv.Itoa(res.Pages)
    data.Result = &res
    w.render(wr, http.StatusOK, data)
}
