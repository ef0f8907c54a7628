package tracking

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// ListenForQuit registers a global key combination and calls onQuit the first
// time it is pressed. The hook is released when ctx is done. It works without
// a preview window, which makes it the quit path for headless renders.
func ListenForQuit(ctx context.Context, keys []string, onQuit func()) {
	var once sync.Once
	hook.Register(hook.KeyDown, keys, func(e hook.Event) {
		once.Do(func() {
			fmt.Printf("%s detected. Stopping processing.\n", strings.Join(keys, "+"))
			onQuit()
		})
	})

	evChan := hook.Start()

	go func() {
		<-ctx.Done()
		hook.End()
	}()

	go func() {
		// Blocks until hook.End() is called.
		<-hook.Process(evChan)
	}()
}
