package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/storage"
)

type harness struct {
	t       *testing.T
	home    string
	confirm bool
	asked   []string
	opened  []string
	watched []bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CUESHEET_HOME", home)
	return &harness{t: t, home: home}
}

// run executes one command line against a fresh app, as separate invocations do.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := newApp()
	a.confirm = func(title string) (bool, error) {
		h.asked = append(h.asked, title)
		return h.confirm, nil
	}
	a.openSheet = func(ctx context.Context, title string, store *cuesheet.Store, reloads <-chan []cuesheet.Cue) error {
		h.opened = append(h.opened, title)
		h.watched = append(h.watched, reloads != nil)
		return nil
	}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (h *harness) createProject(name string) {
	h.t.Helper()
	pdf := filepath.Join(h.t.TempDir(), name+".pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644); err != nil {
		h.t.Fatal(err)
	}
	h.mustRun("project", "create", pdf, "--icon", "🎬")
}

var addedID = regexp.MustCompile(`\(([^)]+)\)`)

func (h *harness) addCue(project string, args ...string) string {
	h.t.Helper()
	out := h.mustRun(append([]string{"cue", "add", project}, args...)...)
	m := addedID.FindStringSubmatch(out)
	if m == nil {
		h.t.Fatalf("no cue id in %q", out)
	}
	return m[1]
}

func TestProjectLifecycle(t *testing.T) {
	h := newHarness(t)
	h.createProject("Hamlet")

	out := h.mustRun("project", "list")
	if !strings.Contains(out, "Hamlet") {
		t.Errorf("expected Hamlet in list, got:\n%s", out)
	}

	h.confirm = false
	out = h.mustRun("project", "delete", "hamlet")
	if !strings.Contains(out, "Cancelled") || len(h.asked) != 1 {
		t.Errorf("expected a cancelled confirmation, got %q (asked %d)", out, len(h.asked))
	}
	if out := h.mustRun("project", "list"); !strings.Contains(out, "Hamlet") {
		t.Error("cancelled delete must keep the project")
	}

	h.mustRun("project", "delete", "Hamlet", "--yes")
	if len(h.asked) != 1 {
		t.Error("--yes must skip the confirmation")
	}
	if _, err := h.run("cue", "list", "Hamlet"); !errors.Is(err, storage.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectCreateRejectsNonPDF(t *testing.T) {
	h := newHarness(t)
	txt := filepath.Join(t.TempDir(), "notes.txt")
	_ = os.WriteFile(txt, []byte("hi"), 0o644)
	if _, err := h.run("project", "create", txt); !errors.Is(err, storage.ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
}

func TestCueCommands(t *testing.T) {
	h := newHarness(t)
	h.createProject("Hamlet")

	first := h.addCue("Hamlet", "--page", "2", "--label", "Preset")
	second := h.addCue("Hamlet", "--type", "sfx", "--color", "green", "--label", "Thunder")

	out := h.mustRun("cue", "list", "Hamlet", "--sort", "label")
	if strings.Index(out, "Preset") > strings.Index(out, "Thunder") {
		t.Errorf("expected label order, got:\n%s", out)
	}
	if !strings.Contains(out, "#22C55E") {
		t.Errorf("palette name should be stored as hex, got:\n%s", out)
	}

	if _, err := h.run("cue", "add", "Hamlet", "--x", "NaN"); !errors.Is(err, cuesheet.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for a NaN position, got %v", err)
	}
	if _, err := h.run("cue", "move", "Hamlet", second, "--length", "NaN"); !errors.Is(err, cuesheet.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for a NaN line length, got %v", err)
	}

	t.Run("set", func(t *testing.T) {
		h.mustRun("cue", "set", "Hamlet", first, "page", "4")
		out := h.mustRun("cue", "list", "Hamlet", "--page", "4")
		if !strings.Contains(out, "Preset") {
			t.Errorf("expected cue on page 4, got:\n%s", out)
		}

		if _, err := h.run("cue", "set", "Hamlet", first, "page", "abc"); !errors.Is(err, cuesheet.ErrInvalidValue) {
			t.Errorf("expected ErrInvalidValue, got %v", err)
		}
		out = h.mustRun("cue", "show", "Hamlet", first)
		if !regexp.MustCompile(`page\s*\|\s*4`).MatchString(out) {
			t.Errorf("rejected edit must leave page 4, got:\n%s", out)
		}
	})

	t.Run("move", func(t *testing.T) {
		out := h.mustRun("cue", "move", "Hamlet", second, "--x", "50", "--y", "25", "--no-snap", "--length", "250")
		if !strings.Contains(out, `{"x":50,"y":25}`) || !strings.Contains(out, "line 250") {
			t.Errorf("unexpected move output %q", out)
		}
	})

	t.Run("delete", func(t *testing.T) {
		out := h.mustRun("cue", "delete", "Hamlet", first, second, "-y")
		if !strings.Contains(out, "Deleted 2") {
			t.Errorf("unexpected delete output %q", out)
		}
		out = h.mustRun("export", "Hamlet")
		if strings.TrimSpace(out) != "Type,Number,Page,Label,Time,Color" {
			t.Errorf("expected header-only export, got %q", out)
		}
	})
}

func TestExportAndPush(t *testing.T) {
	h := newHarness(t)
	h.createProject("Hamlet")
	h.addCue("Hamlet", "--label", "Doorbell, twice", "--type", "SFX")

	out := h.mustRun("export", "Hamlet")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], `SFX,1,1,"Doorbell, twice"`) {
		t.Errorf("unexpected csv:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), cuesheet.CSVFileName)
	h.mustRun("export", "Hamlet", "-o", file)
	if b, err := os.ReadFile(file); err != nil || string(b) != out {
		t.Errorf("file export differs from stdout export: %v", err)
	}

	out = h.mustRun("export", "Hamlet", "--format", "qlab-json")
	if !strings.Contains(out, `"SFX 1"`) {
		t.Errorf("expected QLab cue number in json, got:\n%s", out)
	}
	if _, err := h.run("export", "Hamlet", "--format", "pdf"); err == nil {
		t.Error("unknown format should fail")
	}

	out = h.mustRun("push", "Hamlet", "--dry-run", "--interval", "0")
	if !strings.Contains(out, "Pushed 1 cues (5 messages)") {
		t.Errorf("unexpected push output %q", out)
	}
}

func TestScenes(t *testing.T) {
	h := newHarness(t)
	h.createProject("Hamlet")
	h.addCue("Hamlet", "--page", "3")

	h.mustRun("scene", "add", "Hamlet", "--page", "3", "--title", "The Ghost", "--act", "1", "--act-start")
	if _, err := h.run("scene", "add", "Hamlet", "--page", "4"); !errors.Is(err, cuesheet.ErrInvalidValue) {
		t.Errorf("untitled scene should be rejected, got %v", err)
	}

	out := h.mustRun("scene", "list", "Hamlet")
	if !strings.Contains(out, "The Ghost") || !strings.Contains(out, "1 start") {
		t.Errorf("unexpected scene list:\n%s", out)
	}
}

func TestSheetCommandOpensEditor(t *testing.T) {
	h := newHarness(t)
	h.createProject("Hamlet")
	h.mustRun("sheet", "Hamlet")
	if len(h.opened) != 1 || h.opened[0] != "🎬 Hamlet" {
		t.Errorf("expected the sheet to open once, got %v", h.opened)
	}
	if !h.watched[0] {
		t.Error("the file backend should watch for outside changes")
	}

	pdf := filepath.Join(t.TempDir(), "Macbeth.pdf")
	_ = os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644)
	h.mustRun("--backend", "sqlite", "project", "create", pdf)
	h.mustRun("--backend", "sqlite", "sheet", "Macbeth")
	if h.watched[1] {
		t.Error("the sqlite backend has nothing to watch")
	}
}

func TestWatchCuesDeliversOutsideSaves(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	repo := storage.NewRepository(files)
	p, err := repo.Create(ctx, "Hamlet", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reloads, err := watchCues(ctx, files, p.ID)
	if err != nil {
		t.Fatalf("watchCues failed: %v", err)
	}

	// A second process saving through its own repository.
	other := storage.NewRepository(files)
	cues := []cuesheet.Cue{{ID: "c1", Number: 1, Page: 2, Label: "Ghost enters", Type: cuesheet.CueTypeLX}}
	if err := other.SaveCues(ctx, p.ID, cues); err != nil {
		t.Fatalf("SaveCues failed: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-reloads:
			if len(got) == 1 && got[0].Label == "Ghost enters" {
				return
			}
			t.Logf("intermediate list: %+v", got)
		case <-deadline:
			t.Fatal("timed out waiting for the outside save")
		}
	}
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	data := filepath.Join(t.TempDir(), "db")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}
	pdf := filepath.Join(t.TempDir(), "Macbeth.pdf")
	_ = os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644)

	h.mustRun("--backend", "sqlite", "--data-dir", data, "project", "create", pdf)
	h.mustRun("--backend", "sqlite", "--data-dir", data, "cue", "add", "Macbeth", "--label", "Storm")

	if _, err := os.Stat(filepath.Join(data, "cuesheet.db")); err != nil {
		t.Fatalf("expected sqlite database: %v", err)
	}
	out := h.mustRun("--backend", "sqlite", "--data-dir", data, "cue", "list", "Macbeth")
	if !strings.Contains(out, "Storm") {
		t.Errorf("expected cue in sqlite backend, got:\n%s", out)
	}
	if out := h.mustRun("project", "list"); strings.Contains(out, "Macbeth") {
		t.Error("file backend should not see sqlite projects")
	}
}

func TestConfigCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("config", "print")
	if !strings.Contains(out, "backend: file") || !strings.Contains(out, "port: 53000") {
		t.Errorf("unexpected config:\n%s", out)
	}

	h.mustRun("config", "init")
	if _, err := os.Stat(filepath.Join(h.home, "config.yaml")); err != nil {
		t.Fatalf("config init should write config.yaml: %v", err)
	}
	if _, err := h.run("config", "init"); err == nil {
		t.Error("config init must not overwrite without --overwrite")
	}
	h.mustRun("--backend", "sqlite", "config", "init", "--overwrite")
	if out := h.mustRun("config", "print"); !strings.Contains(out, "backend: sqlite") {
		t.Errorf("expected saved backend, got:\n%s", out)
	}
}

type failingCloser struct{ err error }

func (f failingCloser) Close() error { return f.err }

func TestCloseWrittenReportsCloseError(t *testing.T) {
	diskFull := errors.New("no space left on device")
	if err := closeWritten(failingCloser{err: diskFull}, "cues.csv", nil); !errors.Is(err, diskFull) {
		t.Errorf("expected the close error, got %v", err)
	}
	writeErr := errors.New("short write")
	if err := closeWritten(failingCloser{err: diskFull}, "cues.csv", writeErr); !errors.Is(err, writeErr) {
		t.Errorf("the write error should win, got %v", err)
	}
	if err := closeWritten(failingCloser{}, "cues.csv", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestExportToFullDeviceFails(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("no /dev/full on this system")
	}
	h := newHarness(t)
	h.createProject("Hamlet")
	if _, err := h.run("export", "Hamlet", "-o", "/dev/full"); err == nil {
		t.Error("a failed write must not be reported as success")
	}
}
