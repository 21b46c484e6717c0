package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	cfgpkg "github.com/local/bookletcalc/internal/config"
	"github.com/local/bookletcalc/internal/pagecount"
)

type stubCounter struct {
	pages int
	err   error
}

func (s stubCounter) Count(context.Context, string) (int, error) { return s.pages, s.err }

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("DEFAULT_LANG", "en")
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunText(t *testing.T) {
	code, out, _ := runCLI(t, "8")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	want := "1st Pass (front side): 8,1,6,3\n2nd Pass (back side): 2,7,4,5\nTotal: 8 pages, 2 sheets needed\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunUzbekOnePage(t *testing.T) {
	code, out, _ := runCLI(t, "-lang", "uz", "1")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "1-chi bosma (oldi tomoni): 1\n") || !strings.Contains(out, "(3 ta bo'sh sahifa bo'ladi)") {
		t.Errorf("output = %q", out)
	}
}

func TestRunJSON(t *testing.T) {
	code, out, _ := runCLI(t, "-json", "6")
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	var got struct {
		Pages   int    `json:"pages"`
		Sheets  int    `json:"sheets"`
		Front   []int  `json:"front"`
		Back    []int  `json:"back"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("json: %v (%q)", err, out)
	}
	if got.Sheets != 2 || len(got.Front) != 3 || got.Back[2] != 5 {
		t.Errorf("got %+v", got)
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		args []string
		msg  string
	}{
		{nil, "Please enter the number of pages!"},
		{[]string{"ten"}, "Please enter a whole number!"},
		{[]string{"0"}, "Number of pages must be at least 1!"},
		{[]string{"20000"}, "Too many pages (maximum 10000)!"},
	}
	for _, tt := range tests {
		code, _, errOut := runCLI(t, tt.args...)
		if code != exitInvalid || !strings.Contains(errOut, tt.msg) {
			t.Errorf("%v: exit %d, stderr %q", tt.args, code, errOut)
		}
	}
}

func TestRunFile(t *testing.T) {
	orig := newCounter
	defer func() { newCounter = orig }()

	newCounter = func(cfgpkg.Config) counter { return stubCounter{pages: 4} }
	code, out, _ := runCLI(t, "-file", "s3://b/k.pdf")
	if code != exitOK || !strings.HasPrefix(out, "1st Pass (front side): 4,1\n") {
		t.Errorf("exit %d, output %q", code, out)
	}

	newCounter = func(cfgpkg.Config) counter { return stubCounter{err: errors.New("boom")} }
	code, _, errOut := runCLI(t, "-file", "missing.pdf")
	if code != exitFailure || !strings.Contains(errOut, "Could not count the pages") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}

	t.Setenv("MAX_UPLOAD_MB", "5")
	newCounter = func(cfgpkg.Config) counter { return stubCounter{err: pagecount.ErrTooLarge} }
	code, _, errOut = runCLI(t, "-file", "big.pdf")
	if code != exitFailure || !strings.Contains(errOut, "The file is too large (maximum 5 MB)!") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}

	newCounter = func(cfgpkg.Config) counter { return stubCounter{err: pagecount.ErrNotPDF} }
	code, _, errOut = runCLI(t, "-lang", "uz", "-file", "notes.txt")
	if code != exitFailure || !strings.Contains(errOut, "Yuklangan fayl PDF emas!") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}
