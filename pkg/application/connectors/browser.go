package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--no-sandbox",
	"--disable-infobars",
}

// Browser lazily starts the playwright driver and one Chromium instance.
type Browser struct {
	Headless bool
	SlowMo   time.Duration

	pw    *playwright.Playwright
	value playwright.Browser
	err   error
	init  sync.Once
}

func (b *Browser) Client(ctx context.Context) (playwright.Browser, error) {
	b.init.Do(func() {
		b.pw, b.err = playwright.Run()
		if b.err != nil {
			b.err = fmt.Errorf("playwright.Run: %w", b.err)

			return
		}

		b.value, b.err = b.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(b.Headless),
			Args:     launchArgs,
			SlowMo:   playwright.Float(float64(b.SlowMo.Milliseconds())),
		})
		if b.err != nil {
			b.err = fmt.Errorf("chromium.Launch: %w", b.err)

			return
		}

		logger(ctx).Info("browser launched", slog.Bool("headless", b.Headless))
	})

	return b.value, b.err
}

func (b *Browser) Close(ctx context.Context) {
	if b.value != nil {
		if err := b.value.Close(); err != nil {
			logger(ctx).Error("browser.Close", logx.Error(err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			logger(ctx).Error("playwright.Stop", logx.Error(err))
		}
	}

	logger(ctx).Info("browser closed")
}
