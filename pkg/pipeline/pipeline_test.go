package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeline/pkg/config"
	"github.com/matzehuels/treeline/pkg/errors"
	"github.com/matzehuels/treeline/pkg/observability"
)

func buildFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
	return fsys
}

func read(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(b)
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, config.DefaultBuildDir, opts.BuildDir)
	assert.Equal(t, config.DefaultTemplateDir, opts.TemplateDir)
	assert.Equal(t, []string{config.DefaultExtension}, opts.Extensions)
	assert.Equal(t, config.DefaultConcurrency, opts.Concurrency)
	assert.NotNil(t, opts.Logger)

	bad := Options{Concurrency: -1}
	err := bad.ValidateAndSetDefaults()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.BuildDir = "public"
	cfg.DryRun = true

	opts := FromConfig(cfg)
	assert.Equal(t, "public", opts.BuildDir)
	assert.True(t, opts.DryRun)
	assert.Equal(t, cfg.Concurrency, opts.Concurrency)
}

func TestExecute(t *testing.T) {
	fsys := buildFS(t, map[string]string{
		"build/_layouts/base.html": "<!DOCTYPE html><html><head></head><body><!--treeline:includes:main--></body></html>",
		"build/index.html":         `<!--treeline:extends:base--><template data-treeline-contents="main"><h1>Home</h1></template>`,
		"build/blog/post.html":     `<!--treeline:extends:base--><template data-treeline-contents="main"><h1>Post</h1></template>`,
		"build/plain.html":         "<p>untouched</p>",
	})

	result, err := NewRunner(fsys, nil).Execute(context.Background(), Options{BuildDir: "build", Concurrency: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Layouts)
	assert.Equal(t, 3, result.Stats.Pages)
	assert.Equal(t, 3, result.Stats.Written)
	require.Len(t, result.Pages, 3)
	assert.Equal(t, "post", result.Pages[0].Label)
	assert.Equal(t, "base", result.Pages[0].Root)
	assert.Equal(t, "plain", result.Pages[2].Root)

	assert.Equal(t,
		"<!DOCTYPE html><html><head></head><body><!--treeline:includes:main--><h1>Home</h1></body></html>",
		read(t, fsys, "build/index.html"))
	assert.Equal(t,
		"<!DOCTYPE html><html><head></head><body><!--treeline:includes:main--><h1>Post</h1></body></html>",
		read(t, fsys, "build/blog/post.html"))
	assert.Equal(t, "<p>untouched</p>", read(t, fsys, "build/plain.html"))

	// Layouts are never written.
	assert.Equal(t,
		"<!DOCTYPE html><html><head></head><body><!--treeline:includes:main--></body></html>",
		read(t, fsys, "build/_layouts/base.html"))
}

func TestExecuteDryRun(t *testing.T) {
	page := `<!--treeline:extends:base--><template data-treeline-contents="main">x</template>`
	fsys := buildFS(t, map[string]string{
		"build/_layouts/base.html": "<main><!--treeline:includes:main--></main>",
		"build/index.html":         page,
	})

	result, err := NewRunner(fsys, nil).Execute(context.Background(), Options{BuildDir: "build", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Written)
	assert.Equal(t, len("<main><!--treeline:includes:main-->x</main>"), result.Stats.Bytes)
	assert.Equal(t, page, read(t, fsys, "build/index.html"))
}

func TestExecuteIntermediateLayout(t *testing.T) {
	fsys := buildFS(t, map[string]string{
		"build/_layouts/root.html": "<main><!--treeline:includes:main--></main>",
		"build/_layouts/mid.html":  `<!--treeline:extends:root--><template data-treeline-contents="main">mid</template>`,
		"build/page.html":          `<!--treeline:extends:mid--><template data-treeline-contents="main">page</template>`,
	})

	result, err := NewRunner(fsys, nil).Execute(context.Background(), Options{BuildDir: "build"})
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.True(t, result.Pages[0].Indirect())
	assert.Equal(t, "mid", result.Pages[0].Source)
	assert.Equal(t, "root", result.Pages[0].Root)

	assert.Equal(t, "<main><!--treeline:includes:main-->mid</main>", read(t, fsys, "build/page.html"))
	assert.Equal(t,
		`<!--treeline:extends:root--><template data-treeline-contents="main">mid</template>`,
		read(t, fsys, "build/_layouts/mid.html"))
}

func TestExecuteFailsWholeBuild(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  errors.Code
	}{
		{
			name: "missing fragment",
			files: map[string]string{
				"build/_layouts/base.html": "<main><!--treeline:includes:main--></main>",
				"build/bad.html":           "<!--treeline:extends:base-->",
			},
			code: errors.ErrCodeMissingContentFragment,
		},
		{
			name: "unknown layout",
			files: map[string]string{
				"build/_layouts/base.html": "<main></main>",
				"build/bad.html":           "<!--treeline:extends:nope-->",
			},
			code: errors.ErrCodeLayoutDoesNotExist,
		},
		{
			name: "layout cycle",
			files: map[string]string{
				"build/_layouts/a.html": "<!--treeline:extends:b-->",
				"build/_layouts/b.html": "<!--treeline:extends:a-->",
				"build/page.html":       "<!--treeline:extends:a-->",
			},
			code: errors.ErrCodeLayoutCycle,
		},
		{
			name:  "missing template dir",
			files: map[string]string{"build/index.html": "<p>x</p>"},
			code:  errors.ErrCodeFileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(buildFS(t, tt.files), nil).Execute(context.Background(), Options{BuildDir: "build"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestExecuteReadOnlyFs(t *testing.T) {
	fsys := buildFS(t, map[string]string{
		"build/_layouts/base.html": "<main><!--treeline:includes:main--></main>",
		"build/index.html":         `<!--treeline:extends:base--><template data-treeline-contents="main">x</template>`,
	})

	_, err := NewRunner(afero.NewReadOnlyFs(fsys), nil).Execute(context.Background(), Options{BuildDir: "build"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeIO), "got %v", err)
}

type recordingHooks struct {
	observability.NoopBuildHooks

	mu       sync.Mutex
	events   []string
	rendered map[string]string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnDiscoverStart(context.Context, string) { h.record("discover:start") }

func (h *recordingHooks) OnDiscoverComplete(_ context.Context, _ string, _, _ int, _ time.Duration, _ error) {
	h.record("discover:complete")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, page, root string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered[page] = root
}

func (h *recordingHooks) OnWrite(context.Context, string, int, error) { h.record("write") }

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{rendered: make(map[string]string)}
	observability.SetBuildHooks(hooks)
	t.Cleanup(observability.Reset)

	fsys := buildFS(t, map[string]string{
		"build/_layouts/base.html": "<main><!--treeline:includes:main--></main>",
		"build/a.html":             `<!--treeline:extends:base--><template data-treeline-contents="main">a</template>`,
		"build/b.html":             `<!--treeline:extends:base--><template data-treeline-contents="main">b</template>`,
	})
	_, err := NewRunner(fsys, nil).Execute(context.Background(), Options{BuildDir: "build"})
	require.NoError(t, err)

	assert.Equal(t, []string{"discover:start", "discover:complete", "write", "write"}, hooks.events)
	assert.Equal(t, map[string]string{"a": "base", "b": "base"}, hooks.rendered)
}

func TestExecuteCanceled(t *testing.T) {
	fsys := buildFS(t, map[string]string{
		"build/_layouts/base.html": "<p>base</p>",
		"build/index.html":         "<p>x</p>",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(fsys, nil).Execute(ctx, Options{BuildDir: "build"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteExampleSite(t *testing.T) {
	dir, err := filepath.Abs("../../examples/site")
	require.NoError(t, err)
	site := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
	cfg, err := config.Load(site, config.FileName)
	require.NoError(t, err)

	opts := FromConfig(cfg)
	opts.DryRun = true
	result, err := NewRunner(site, nil).Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Layouts)
	require.Len(t, result.Pages, 2)
	for _, p := range result.Pages {
		assert.Equal(t, "base", p.Root, p.Path)
		assert.False(t, p.Indirect(), p.Path)
		assert.Positive(t, p.Bytes, p.Path)
	}
}
