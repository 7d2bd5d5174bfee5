package config

import (
	"os"
	"testing"
	"time"

	"github.com/dshills/wrapstore/internal/config/loader"
	"github.com/dshills/wrapstore/internal/config/watcher"
)

func TestWatch_NoFile(t *testing.T) {
	if _, err := Watch(NewLoader(""), func(*Settings) {}); err == nil {
		t.Error("Watch without a settings file should fail")
	}
}

func TestReloader_Handle(t *testing.T) {
	path := writeFile(t, "[editor]\nwrapWidth = 10\n")
	var got []*Settings
	r := &Reloader{
		loader: NewLoaderWith(loader.NewTOMLLoader(path), nil),
		apply:  func(s *Settings) { got = append(got, s) },
		log:    nopLogger(),
	}

	r.handle(watcher.Event{Path: path, Op: watcher.OpWrite})
	if len(got) != 1 || got[0].Editor.WrapWidth != 10 {
		t.Fatalf("after write: %v", got)
	}

	if err := os.WriteFile(path, []byte("[editor]\nwrapWidth = -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r.handle(watcher.Event{Path: path, Op: watcher.OpWrite})
	if len(got) != 1 {
		t.Errorf("invalid settings were applied")
	}

	r.handle(watcher.Event{Path: path, Op: watcher.OpRemove})
	if len(got) != 1 {
		t.Errorf("removal should not apply settings")
	}
}

func TestWatch_Reloads(t *testing.T) {
	path := writeFile(t, "[editor]\nwrapWidth = 10\n")
	applied := make(chan int, 8)
	r, err := Watch(NewLoaderWith(loader.NewTOMLLoader(path), nil), func(s *Settings) {
		applied <- s.Editor.WrapWidth
	}, watcher.WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer r.Close()

	if err := os.WriteFile(path, []byte("[editor]\nwrapWidth = 33\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case w := <-applied:
			if w == 33 {
				return
			}
		case <-deadline:
			t.Fatal("settings were not reloaded")
		}
	}
}
