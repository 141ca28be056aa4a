// internal/server/server.go
package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"multipage/internal/config"
	"multipage/internal/pages"
	"multipage/internal/render"
	"multipage/internal/util"
)

// Run starts the development server. Every HTML request runs the full page
// pipeline (name, descriptor, template, render) from scratch; nothing is
// rendered ahead of time, so file changes only need to trigger a browser
// reload, not a rebuild.
//
// inputs is the host's resolved entry-input mapping, needed for template
// resolution in only-post-process mode.
func Run(port int, root string, opts *config.Options, renderer render.Renderer, inputs map[string]string) error {
	if renderer == nil {
		renderer = render.HTMLRenderer{}
	}

	hub := newHub()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				log.Printf("Error adding watch on %s: %v", dir, err)
			} else {
				fmt.Printf("Watching directory: %s\n", dir)
				watchedDirs[dir] = true
			}
		}
	}

	pathsToWatch := []string{
		filepath.Join(root, opts.PagesDir),
		filepath.Join(root, "public"),
		filepath.Join(root, "index.html"),
		filepath.Join(root, "multipage.yaml"),
	}
	for _, path := range pathsToWatch {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}

		if info.IsDir() {
			if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					addWatch(walkPath)
				}
				return nil
			}); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		} else {
			// For files, watch their PARENT directory. This handles Vim's save-swap behavior.
			addWatch(filepath.Dir(path))
		}
	}

	go watchForChanges(watcher, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	mux.Handle("/", transformWrapper(Handler(root, opts, renderer, inputs)))

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Serving pages on http://localhost%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return http.ListenAndServe(addr, mux)
}

// Handler answers one request. HTML requests (and the site root) run the
// page pipeline; everything else is served straight from the project tree.
func Handler(root string, opts *config.Options, renderer render.Renderer, inputs map[string]string) http.Handler {
	files := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".html") && r.URL.Path != "/" {
			files.ServeHTTP(w, r)
			return
		}

		// The Resolution travels through the whole pipeline as a value, so
		// overlapping requests cannot see each other's page name.
		res := pages.Resolution{Name: pages.FromRequestPath(opts.PagesDir, r.URL.Path), Build: false}
		desc := pages.ResolveDescriptor(opts, res.Name)

		tpl, err := pages.ResolveTemplate(root, opts, desc, res, inputs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		html, err := renderer.Render(render.Input{
			Root:         root,
			PagesDir:     opts.PagesDir,
			Resolution:   res,
			Descriptor:   desc,
			TemplatePath: tpl,
			IsMPA:        opts.MPA(),
			AutoAddEntry: opts.AutoAddEntry,
			InjectTarget: opts.InjectTarget,
			BaseHref:     util.ComputeBaseHref(filepath.FromSlash(strings.TrimPrefix(r.URL.Path, "/"))),
			URL:          r.URL.Path,
			Unsafe:       opts.Unsafe,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	})
}

func watchForChanges(watcher *fsnotify.Watcher, hub *Hub) {
	var lastReload time.Time
	const debounceDuration = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Create, write, remove and rename all count; editors differ in
			// how they save files.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if time.Since(lastReload) > debounceDuration {
					log.Printf("Change detected in %s, reloading...", event.Name)
					hub.broadcastMessage([]byte("reload"))
					lastReload = time.Now()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// transformWrapper is the host-level transform step: every HTML response
// passes through it before being finalized, which is where the live-reload
// client gets injected.
func transformWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		bodyBytes := iw.body.Bytes()

		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(bodyBytes)
			return
		}

		injectedBody := bytes.Replace(bodyBytes, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injectedBody)))
		w.WriteHeader(iw.statusCode)
		w.Write(injectedBody)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        console.log("Reloading page...");
        window.location.reload();
      }
    };
    socket.onclose = function() {
      // Don't log on normal close, it's just noise.
    };
    socket.onerror = function(error) {
      console.error("Live reload connection error. Please restart 'multipage serve'.");
    };
  })();
</script>
`
