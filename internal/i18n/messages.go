// Package i18n holds the user-facing text of the calculator in every
// supported language.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/local/bookletcalc/internal/imposition"
	"github.com/local/bookletcalc/internal/validate"
)

// Lang is a supported UI language.
type Lang string

const (
	English Lang = "en"
	Uzbek   Lang = "uz"
)

// Key names a message.
type Key string

const (
	Title           Key = "title"
	PagesLabel      Key = "pages_label"
	Calculate       Key = "calculate"
	FrontPassTitle  Key = "front_pass_title"
	BackPassTitle   Key = "back_pass_title"
	CopyFront       Key = "copy_front"
	CopyBack        Key = "copy_back"
	CopiedFront     Key = "copied_front"
	CopiedBack      Key = "copied_back"
	Instructions    Key = "instructions"
	ErrorTitle      Key = "error_title"
	ErrEmpty        Key = "err_empty"
	ErrNotInteger   Key = "err_not_integer"
	ErrBelowMinimum Key = "err_below_minimum"
	ErrAboveMaximum Key = "err_above_maximum"
	SummaryBlanks   Key = "summary_blanks"
	SummaryExact    Key = "summary_exact"
	UploadLabel     Key = "upload_label"
	ErrNotPDF       Key = "err_not_pdf"
	ErrPageCount    Key = "err_page_count"
	ErrTooLarge     Key = "err_too_large"
)

var supported = []Lang{English, Uzbek}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.MustParse("uz"),
})

var catalogs = map[Lang]map[Key]string{
	English: {
		Title:           "BookletCalc - Booklet Page Calculator",
		PagesLabel:      "Number of pages:",
		Calculate:       "Calculate",
		FrontPassTitle:  "1st Pass (front side)",
		BackPassTitle:   "2nd Pass (back side)",
		CopyFront:       "Copy 1st Pass",
		CopyBack:        "Copy 2nd Pass",
		CopiedFront:     "First pass copied!",
		CopiedBack:      "Second pass copied!",
		Instructions:    "1. Enter the number of pages\n2. Click 'Calculate'\n3. Copy the result to your print dialog",
		ErrorTitle:      "Error",
		ErrEmpty:        "Please enter the number of pages!",
		ErrNotInteger:   "Please enter a whole number!",
		ErrBelowMinimum: "Number of pages must be at least %d!",
		ErrAboveMaximum: "Too many pages (maximum %d)!",
		SummaryBlanks:   "Total: %d pages, %d sheets. (%d blank pages)",
		SummaryExact:    "Total: %d pages, %d sheets needed",
		UploadLabel:     "Or count pages from a PDF:",
		ErrNotPDF:       "The uploaded file is not a PDF!",
		ErrPageCount:    "Could not count the pages of the document!",
		ErrTooLarge:     "The file is too large (maximum %d MB)!",
	},
	Uzbek: {
		Title:           "BookletCalc - Kitobcha uchun sahifalar tartibi",
		PagesLabel:      "Sahifalar soni:",
		Calculate:       "Hisoblash",
		FrontPassTitle:  "1-chi bosma (oldi tomoni)",
		BackPassTitle:   "2-chi bosma (orqa tomoni)",
		CopyFront:       "1-chi bosmani nusxalash",
		CopyBack:        "2-chi bosmani nusxalash",
		CopiedFront:     "1-chi bosma nusxalandi!",
		CopiedBack:      "2-chi bosma nusxalandi!",
		Instructions:    "1. Sahifalar sonini kiriting\n2. 'Hisoblash' tugmasini bosing\n3. Natijani nusxalab, chop etish oynasiga joylashtiring",
		ErrorTitle:      "Xato",
		ErrEmpty:        "Iltimos, sahifalar sonini kiriting!",
		ErrNotInteger:   "Iltimos, faqat butun son kiriting!",
		ErrBelowMinimum: "Sahifalar soni %d dan kam bo'lmasligi kerak!",
		ErrAboveMaximum: "Sahifalar soni juda katta (maksimum %d)!",
		SummaryBlanks:   "Jami: %d sahifa, %d varaq. (%d ta bo'sh sahifa bo'ladi)",
		SummaryExact:    "Jami: %d sahifa, %d varaq kerak",
		UploadLabel:     "Yoki PDF fayldan sahifalarni sanash:",
		ErrNotPDF:       "Yuklangan fayl PDF emas!",
		ErrPageCount:    "Hujjat sahifalarini sanab bo'lmadi!",
		ErrTooLarge:     "Fayl juda katta (maksimum %d MB)!",
	},
}

// Parse returns the language named by s ("en", "uz", "uz-Latn", ...).
func Parse(s string) (Lang, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range supported {
		if base.String() == string(l) {
			return l, true
		}
	}
	return "", false
}

// Match picks a language from an Accept-Language header, English by default.
func Match(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return supported[idx]
}

// T formats message key in lang. Missing translations fall back to English.
func T(lang Lang, key Key, args ...any) string {
	msg, ok := catalogs[lang][key]
	if !ok {
		msg = catalogs[English][key]
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Messages returns every message of lang, for templates.
func Messages(lang Lang) map[Key]string {
	out := make(map[Key]string, len(catalogs[English]))
	for k := range catalogs[English] {
		out[k] = T(lang, k)
	}
	return out
}

// Summary describes a layout, e.g. "Total: 6 pages, 2 sheets. (2 blank pages)".
func Summary(lang Lang, l imposition.Layout) string {
	if l.Blanks > 0 {
		return T(lang, SummaryBlanks, l.Pages, l.Sheets, l.Blanks)
	}
	return T(lang, SummaryExact, l.Pages, l.Sheets)
}

// ValidationMessage returns the message shown for a rejected page count.
func ValidationMessage(lang Lang, kind validate.Kind) string {
	switch kind {
	case validate.EmptyInput:
		return T(lang, ErrEmpty)
	case validate.NotAnInteger:
		return T(lang, ErrNotInteger)
	case validate.BelowMinimum:
		return T(lang, ErrBelowMinimum, validate.MinPages)
	case validate.AboveMaximum:
		return T(lang, ErrAboveMaximum, validate.MaxPages)
	}
	return T(lang, ErrorTitle)
}
