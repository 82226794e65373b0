// Package browser adapts a playwright page to the selector-level operations the
// site adapter needs.
package browser

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultTimeout = 30 * time.Second

type Page struct {
	page    playwright.Page
	timeout time.Duration
}

// Open creates a fresh context with a randomized viewport and returns its page.
func Open(browser playwright.Browser, timeout time.Duration) (*Page, error) {
	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1200 + rand.IntN(200), //nolint:gosec
			Height: 1400 + rand.IntN(400), //nolint:gosec
		},
		Locale: playwright.String("en-US"),
	})
	if err != nil {
		return nil, fmt.Errorf("browser.NewContext: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return nil, fmt.Errorf("browserContext.NewPage: %w", err)
	}

	return NewPage(page, timeout), nil
}

func NewPage(page playwright.Page, timeout time.Duration) *Page {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Page{
		page:    page,
		timeout: timeout,
	}
}

func (p *Page) Goto(ctx context.Context, url string, waitNetworkIdle bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitUntil := playwright.WaitUntilStateDomcontentloaded
	if waitNetworkIdle {
		waitUntil = playwright.WaitUntilStateNetworkidle
	}

	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil,
		Timeout:   p.timeoutMs(),
	}); err != nil {
		return fmt.Errorf("page.Goto %s: %w", url, err)
	}

	return nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: p.timeoutMs(),
	}); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}

	return nil
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: p.timeoutMs(),
	}); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}

	return nil
}

func (p *Page) Select(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := p.page.Locator(selector).First().SelectOption(
		playwright.SelectOptionValues{Values: playwright.StringSlice(value)},
		playwright.LocatorSelectOptionOptions{Timeout: p.timeoutMs()},
	); err != nil {
		return fmt.Errorf("select %s: %w", selector, err)
	}

	return nil
}

func (p *Page) Press(ctx context.Context, selector, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.page.Locator(selector).First().Press(key, playwright.LocatorPressOptions{
		Timeout: p.timeoutMs(),
	}); err != nil {
		return fmt.Errorf("press %s on %s: %w", key, selector, err)
	}

	return nil
}

// WaitVisible waits for the first match of selector; timeout <= 0 uses the page default.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms := p.timeoutMs()
	if timeout > 0 {
		ms = playwright.Float(float64(timeout.Milliseconds()))
	}

	if err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms,
	}); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}

	return nil
}

func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := p.page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", selector, err)
	}

	return n, nil
}

func (p *Page) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("page.Content: %w", err)
	}

	return html, nil
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) Close() error {
	if err := p.page.Context().Close(); err != nil {
		return fmt.Errorf("browserContext.Close: %w", err)
	}

	return nil
}

func (p *Page) timeoutMs() *float64 {
	return playwright.Float(float64(p.timeout.Milliseconds()))
}
