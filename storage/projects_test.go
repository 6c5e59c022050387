package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zenibako/cuesheet/cuesheet"
)

func newTestRepository(b Backend) (*Repository, *time.Time) {
	r := NewRepository(b)
	now := time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("proj-%d", n)
	}
	return r, &now
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			r, now := newTestRepository(b)

			list, err := r.List(ctx)
			if err != nil || len(list) != 0 {
				t.Fatalf("expected empty list, got %v (%v)", list, err)
			}

			hamlet, err := r.Create(ctx, "Hamlet", "", "data:application/pdf;base64,AA==")
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if hamlet.Icon != DefaultIcon {
				t.Errorf("expected default icon, got %q", hamlet.Icon)
			}
			if _, err := r.Create(ctx, "Macbeth", "🎬", ""); err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			*now = now.Add(time.Hour)
			cues := []cuesheet.Cue{{ID: "c1", Number: 1, Page: 2, Type: cuesheet.CueTypeLX}}
			if err := r.SaveCues(ctx, hamlet.ID, cues); err != nil {
				t.Fatalf("SaveCues failed: %v", err)
			}

			got, err := r.Get(ctx, hamlet.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if len(got.Cues) != 1 || got.Cues[0].Page != 2 {
				t.Errorf("cues did not round-trip: %+v", got.Cues)
			}
			if !got.UpdatedAt.After(got.CreatedAt) {
				t.Errorf("UpdatedAt should move forward, created %v updated %v", got.CreatedAt, got.UpdatedAt)
			}

			if err := r.Delete(ctx, hamlet.ID); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			list, _ = r.List(ctx)
			if len(list) != 1 || list[0].Name != "Macbeth" {
				t.Errorf("expected only Macbeth left, got %+v", list)
			}

			if _, err := r.Get(ctx, hamlet.ID); !errors.Is(err, ErrProjectNotFound) {
				t.Errorf("expected ErrProjectNotFound, got %v", err)
			}
			if err := r.Delete(ctx, hamlet.ID); !errors.Is(err, ErrProjectNotFound) {
				t.Errorf("expected ErrProjectNotFound, got %v", err)
			}
		})
	}
}

func TestRepositoryRejectsBlankName(t *testing.T) {
	r, _ := newTestRepository(NewMemoryBackend())
	if _, err := r.Create(context.Background(), "   ", "", ""); !errors.Is(err, cuesheet.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestRepositoryCorruptRecord(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	_ = b.Put(ctx, ProjectsKey, []byte("{not json"))

	r := NewRepository(b)
	if _, err := r.List(ctx); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestDecodeProject(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	r, _ := newTestRepository(b)
	p, err := r.Create(ctx, "Our Town", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := r.SaveCues(ctx, p.ID, []cuesheet.Cue{{ID: "c1", Number: 1, Page: 1}}); err != nil {
		t.Fatalf("SaveCues failed: %v", err)
	}
	data, _ := b.Get(ctx, ProjectsKey)

	got, err := DecodeProject(data, p.ID)
	if err != nil {
		t.Fatalf("DecodeProject failed: %v", err)
	}
	if len(got.Cues) != 1 || got.Cues[0].ID != "c1" {
		t.Errorf("unexpected cues %+v", got.Cues)
	}
	if _, err := DecodeProject(data, "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
	if _, err := DecodeProject([]byte("{"), p.ID); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestRepositoryPersisterWiresStore(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(NewMemoryBackend())
	p, err := r.Create(ctx, "Our Town", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := cuesheet.NewStore(p.Cues, cuesheet.DefaultSettings(), r.Persister(p.ID))
	if _, err := store.Add(ctx, cuesheet.Draft{Page: 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, cuesheet.Draft{Page: 3}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	saved, _ := r.Get(ctx, p.ID)
	if len(saved.Cues) != 2 || saved.Cues[1].Number != 2 {
		t.Errorf("expected two persisted cues, got %+v", saved.Cues)
	}
}

func TestRepositorySaveScenes(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(NewMemoryBackend())
	p, _ := r.Create(ctx, "Oklahoma", "", "")

	scenes, _ := cuesheet.AddSceneHeading(nil, cuesheet.SceneHeading{PageNumber: 4, Title: "Opening"})
	if err := r.SaveScenes(ctx, p.ID, scenes); err != nil {
		t.Fatalf("SaveScenes failed: %v", err)
	}
	got, _ := r.Get(ctx, p.ID)
	if len(got.SceneHeadings) != 1 || got.SceneHeadings[0].Title != "Opening" {
		t.Errorf("scenes did not round-trip: %+v", got.SceneHeadings)
	}
	if err := r.SaveScenes(ctx, "missing", scenes); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}
