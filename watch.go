package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// runWatch re-lints whenever either input file changes. Watch mode reports
// continuously and never exits on findings.
func runWatch(codePath, specPath string) {
	runWatchWithStop(codePath, specPath, nil)
}

func runWatchWithStop(codePath, specPath string, stop <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: watch init failed: %v\n", err)
		os.Exit(1)
	}
	defer watcher.Close()

	// Watch the parent directories; editors replace files on save, which
	// drops watches placed on the files themselves.
	dirs := map[string]bool{}
	for _, p := range []string{codePath, specPath} {
		dirs[filepath.Dir(filepath.Clean(p))] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: watch failed for %s: %v\n", dir, err)
			os.Exit(1)
		}
	}

	runLint(codePath, specPath)
	fmt.Println("watching for changes (ctrl-c to stop)")

	var timer *time.Timer
	debounce := 300 * time.Millisecond
	trigger := func() {
		runLint(codePath, specPath)
	}

	watched := map[string]bool{
		filepath.Clean(codePath): true,
		filepath.Clean(specPath): true,
	}

	for {
		select {
		case <-stop:
			return
		case ev := <-watcher.Events:
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, trigger)
		case err := <-watcher.Errors:
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}
