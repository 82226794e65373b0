package hattrick_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errNotVisible = errors.New("element not visible")

type fakePage struct {
	url      string
	contents []string
	hidden   map[string]bool
	counts   map[string]int
	calls    []string
}

func newFakePage(contents ...string) *fakePage {
	return &fakePage{
		contents: contents,
		hidden:   map[string]bool{},
		counts:   map[string]int{},
	}
}

func (f *fakePage) Goto(_ context.Context, url string, waitNetworkIdle bool) error {
	f.calls = append(f.calls, fmt.Sprintf("goto %s idle=%t", url, waitNetworkIdle))

	return nil
}

func (f *fakePage) Click(_ context.Context, selector string) error {
	f.calls = append(f.calls, "click "+selector)

	return nil
}

func (f *fakePage) Fill(_ context.Context, selector, value string) error {
	f.calls = append(f.calls, "fill "+selector+"="+value)

	return nil
}

func (f *fakePage) Select(_ context.Context, selector, value string) error {
	f.calls = append(f.calls, "select "+selector+"="+value)

	return nil
}

func (f *fakePage) Press(_ context.Context, selector, key string) error {
	f.calls = append(f.calls, "press "+selector+" "+key)

	return nil
}

func (f *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	if f.hidden[selector] {
		return errNotVisible
	}

	return nil
}

func (f *fakePage) Count(_ context.Context, selector string) (int, error) {
	return f.counts[selector], nil
}

func (f *fakePage) Content(context.Context) (string, error) {
	if len(f.contents) == 0 {
		return "", errors.New("no content")
	}

	html := f.contents[0]
	if len(f.contents) > 1 {
		f.contents = f.contents[1:]
	}

	return html, nil
}

func (f *fakePage) URL() string {
	return f.url
}

func fixture(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return string(data)
}
