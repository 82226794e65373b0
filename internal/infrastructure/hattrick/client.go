// Package hattrick drives the transfer market pages: login, search, result
// collection and reading a player's listing.
package hattrick

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"transfer_scanner/internal/domain"
	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/parse"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	pagerTimeout  = 2 * time.Second
	medianTimeout = 10 * time.Second
)

type Page interface {
	Goto(ctx context.Context, url string, waitNetworkIdle bool) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Select(ctx context.Context, selector, value string) error
	Press(ctx context.Context, selector, key string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Count(ctx context.Context, selector string) (int, error)
	Content(ctx context.Context) (string, error)
	URL() string
}

type ProcessedChecker interface {
	IsProcessed(ctx context.Context, playerID string) (bool, error)
}

type Credentials struct {
	LoginName     string
	LoginPassword string
}

type Client struct {
	page       Page
	retryOpts  []retry.Option
	dateFormat entity.DateFormat
	pauseMin   time.Duration
	pauseMax   time.Duration
	now        func() time.Time
}

func NewClient(page Page, dateFormat entity.DateFormat, retryOpts ...retry.Option) *Client {
	return &Client{
		page:       page,
		retryOpts:  retryOpts,
		dateFormat: dateFormat,
		pauseMin:   200 * time.Millisecond,
		pauseMax:   400 * time.Millisecond,
		now:        time.Now,
	}
}

// WithPacing sets the random pause between form interactions; zero disables it.
func (c *Client) WithPacing(minPause, maxPause time.Duration) *Client {
	c.pauseMin, c.pauseMax = minPause, maxPause

	return c
}

func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now

	return c
}

// Login signs in and returns the subdomain of the logged-in session, e.g. "www82".
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := c.do(ctx, "open home page", func() error {
		return c.page.Goto(ctx, homeURL, true)
	}); err != nil {
		return "", err
	}

	if err := c.click(ctx, "reject cookies", selCookieReject); err != nil {
		return "", err
	}

	if err := c.click(ctx, "open login form", selLoginLink); err != nil {
		return "", err
	}

	if err := c.fill(ctx, "fill login name", selLoginName, creds.LoginName); err != nil {
		return "", err
	}

	if err := c.fill(ctx, "fill password", selLoginPassword, creds.LoginPassword); err != nil {
		return "", err
	}

	if err := c.do(ctx, "submit login", func() error {
		return c.page.Press(ctx, selLoginPassword, "Enter")
	}); err != nil {
		return "", err
	}

	if err := c.do(ctx, "wait for My Club", func() error {
		return c.page.WaitVisible(ctx, selMyClub, 0)
	}); err != nil {
		return "", domain.WrapError(err, errcodes.LoginFailed, "login failed for "+creds.LoginName)
	}

	subdomain := subdomainOf(c.page.URL())

	logger(ctx).InfoContext(ctx, "logged in",
		slog.String(logx.FieldUser, creds.LoginName),
		slog.String(logx.FieldSubdomain, subdomain),
	)

	return subdomain, nil
}

// ApplyFilter opens the transfer search, clears it, applies the filter and searches.
func (c *Client) ApplyFilter(ctx context.Context, subdomain string, filter entity.SearchFilter) error {
	actions, err := Actions(filter)
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidFilter, "invalid search filter")
	}

	if err := c.do(ctx, "open transfers page", func() error {
		return c.page.Goto(ctx, fmt.Sprintf(transfersURLFmt, subdomain), false)
	}); err != nil {
		return err
	}

	if err := c.pause(ctx); err != nil {
		return err
	}

	if err := c.click(ctx, "clear filter", selClearFilter); err != nil {
		return err
	}

	if err := c.pause(ctx); err != nil {
		return err
	}

	if err := c.do(ctx, "wait for search form", func() error {
		return c.page.WaitVisible(ctx, selSkill4, 0)
	}); err != nil {
		return err
	}

	for _, action := range actions {
		if err := c.apply(ctx, action); err != nil {
			return err
		}

		if err := c.pause(ctx); err != nil {
			return err
		}
	}

	if err := c.click(ctx, "search", selSearch); err != nil {
		return err
	}

	logger(ctx).InfoContext(ctx, "searching filter", slog.String(logx.FieldFilter, Describe(filter)))

	return nil
}

func (c *Client) apply(ctx context.Context, action FilterAction) error {
	description := action.Kind.String() + " " + action.Selector

	return c.do(ctx, description, func() error {
		if err := c.page.WaitVisible(ctx, action.Selector, 0); err != nil {
			return err
		}

		switch action.Kind {
		case ActionSelect:
			return c.page.Select(ctx, action.Selector, action.Value)
		case ActionFill:
			return c.page.Fill(ctx, action.Selector, action.Value)
		case ActionToggle:
			return c.page.Click(ctx, action.Selector)
		default:
			return retry.Permanent(fmt.Errorf("unknown action kind %d", action.Kind))
		}
	})
}

// CollectCandidates walks every result page and returns not-yet-processed players
// whose deadline falls within window from now.
func (c *Client) CollectCandidates(
	ctx context.Context,
	filter entity.SearchFilter,
	processed ProcessedChecker,
	window time.Duration,
) ([]entity.Candidate, error) {
	if err := c.do(ctx, "wait for search results", func() error {
		return c.page.WaitVisible(ctx, selResultsTitle, 0)
	}); err != nil {
		return nil, err
	}

	collector := &candidateCollector{
		client:    c,
		processed: processed,
		window:    window,
		seen:      make(map[string]struct{}),
	}

	first, err := collector.collectPage(ctx, filter, 1)
	if err != nil {
		return nil, err
	}

	for _, number := range first.Pages {
		if err := c.do(ctx, fmt.Sprintf("open result page %d", number), func() error {
			if err := c.page.Click(ctx, fmt.Sprintf("%s:text-is('%d')", selPagerLinks, number)); err != nil {
				return err
			}

			return c.page.WaitVisible(ctx, fmt.Sprintf(selPagerInfoFmt, number), pagerTimeout)
		}); err != nil {
			return nil, err
		}

		if _, err := collector.collectPage(ctx, filter, number); err != nil {
			return nil, err
		}
	}

	logger(ctx).InfoContext(ctx, "processing players", slog.Int(logx.FieldCount, len(collector.candidates)))

	return collector.candidates, nil
}

type candidateCollector struct {
	client     *Client
	processed  ProcessedChecker
	window     time.Duration
	seen       map[string]struct{}
	candidates []entity.Candidate
}

func (cc *candidateCollector) collectPage(ctx context.Context, filter entity.SearchFilter, number int) (resultsPage, error) {
	html, err := cc.client.page.Content(ctx)
	if err != nil {
		return resultsPage{}, err
	}

	page, err := parseResultsPage(html)
	if err != nil {
		return resultsPage{}, err
	}

	if !page.HasResults {
		logger(ctx).WarnContext(ctx, "no players found for filter", slog.String(logx.FieldFilter, Describe(filter)))

		return page, nil
	}

	now := cc.client.now()
	collected := 0

	for _, row := range page.Rows {
		if row.Link == "" {
			continue
		}

		playerID, ok := parse.PlayerID(row.Link)
		if !ok {
			continue
		}

		done, err := cc.processed.IsProcessed(ctx, playerID)
		if err != nil {
			return resultsPage{}, fmt.Errorf("processed.IsProcessed: %w", err)
		}

		if done {
			continue
		}

		deadline, ok := parse.Deadline(row.Deadline, cc.client.dateFormat)
		if !ok {
			continue
		}

		remaining := deadline.Sub(now)
		if remaining <= 0 || remaining >= cc.window {
			continue
		}

		if _, dup := cc.seen[row.Link]; dup {
			continue
		}

		cc.seen[row.Link] = struct{}{}
		cc.candidates = append(cc.candidates, entity.Candidate{
			Link:     row.Link,
			PlayerID: playerID,
			Deadline: deadline,
		})
		collected++
	}

	logger(ctx).InfoContext(ctx, "result page scanned",
		slog.Int(logx.FieldPage, number),
		slog.Int(logx.FieldFound, len(page.Rows)),
		slog.Int(logx.FieldCollected, collected),
	)

	return page, nil
}

// OpenListing reads price, deadline, wage, median and injury of one player.
func (c *Client) OpenListing(ctx context.Context, subdomain string, candidate entity.Candidate) (entity.RawListing, error) {
	listing := entity.RawListing{
		Link:     candidate.Link,
		PlayerID: candidate.PlayerID,
	}

	if err := c.do(ctx, "open player page", func() error {
		return c.page.Goto(ctx, fmt.Sprintf(siteURLFmt, subdomain, strings.TrimPrefix(candidate.Link, "/")), false)
	}); err != nil {
		return listing, err
	}

	page, err := retry.Do(ctx, "read bid panel", func() (playerPage, error) {
		html, err := c.page.Content(ctx)
		if err != nil {
			return playerPage{}, err
		}

		page, err := parsePlayerPage(html)
		if err != nil {
			return playerPage{}, retry.Permanent(err)
		}

		if !page.HasBid && !page.Injured {
			return playerPage{}, domain.NewError(errcodes.ElementNotFound, "bid panel not rendered")
		}

		return page, nil
	}, c.retryOpts...)
	if err != nil {
		return listing, err
	}

	listing.Price = page.Price
	listing.Deadline = page.Deadline
	listing.Wage = page.Wage
	listing.Injured = page.Injured

	if page.Injured {
		return listing, nil
	}

	median, err := c.readMedian(ctx)
	if err != nil {
		return listing, err
	}

	listing.Median = median

	return listing, nil
}

func (c *Client) readMedian(ctx context.Context) (*string, error) {
	links, err := c.page.Count(ctx, selTransferCompare)
	if err != nil {
		return nil, err
	}

	if links == 0 {
		logger(ctx).WarnContext(ctx, "transfer compare link missing")

		return nil, nil //nolint:nilnil
	}

	if err := c.click(ctx, "open transfer compare", selTransferCompare); err != nil {
		return nil, err
	}

	if err := c.page.WaitVisible(ctx, selMedianRow, medianTimeout); err != nil {
		logger(ctx).WarnContext(ctx, "median not shown", logx.Error(err))

		return nil, nil //nolint:nilnil
	}

	html, err := c.page.Content(ctx)
	if err != nil {
		return nil, err
	}

	return parseMedian(html)
}

func (c *Client) click(ctx context.Context, description, selector string) error {
	return c.do(ctx, description, func() error {
		if err := c.page.WaitVisible(ctx, selector, 0); err != nil {
			return err
		}

		return c.page.Click(ctx, selector)
	})
}

func (c *Client) fill(ctx context.Context, description, selector, value string) error {
	return c.do(ctx, description, func() error {
		if err := c.page.WaitVisible(ctx, selector, 0); err != nil {
			return err
		}

		return c.page.Fill(ctx, selector, value)
	})
}

func (c *Client) do(ctx context.Context, description string, action func() error) error {
	return retry.Execute(ctx, description, action, c.retryOpts...)
}

func (c *Client) pause(ctx context.Context) error {
	if c.pauseMax <= 0 {
		return nil
	}

	d := c.pauseMin
	if spread := c.pauseMax - c.pauseMin; spread > 0 {
		d += rand.N(spread) //nolint:gosec
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// subdomainOf: "https://www82.hattrick.org/MyHattrick/" -> "www82".
func subdomainOf(url string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")

	sub, _, _ := strings.Cut(host, ".")

	return sub
}
