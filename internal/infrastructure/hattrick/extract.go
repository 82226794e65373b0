package hattrick

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type resultRow struct {
	Link     string
	Deadline *string
}

type resultsPage struct {
	HasResults bool
	Rows       []resultRow
	Pages      []int
}

type playerPage struct {
	Price    *string
	Deadline *string
	Wage     *string
	Injured  bool
	HasBid   bool
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}

func parseResultsPage(html string) (resultsPage, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return resultsPage{}, err
	}

	page := resultsPage{
		HasResults: doc.Find(selPager).Length() > 0,
	}

	if !page.HasResults {
		return page, nil
	}

	doc.Find(selPlayerInfo).Each(func(_ int, info *goquery.Selection) {
		href, _ := info.Find(selPlayerLink).First().Attr("href")

		row := resultRow{Link: strings.TrimSpace(href)}

		deadline := info.ParentsFiltered(selFlexParent).First().Find(selRowDeadline).First()
		if deadline.Length() > 0 {
			row.Deadline = text(deadline)
		}

		page.Rows = append(page.Rows, row)
	})

	doc.Find(selPagerLinks).Each(func(_ int, link *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(link.Text())); err == nil {
			page.Pages = append(page.Pages, n)
		}
	})

	return page, nil
}

func parsePlayerPage(html string) (playerPage, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return playerPage{}, err
	}

	page := playerPage{
		Injured: doc.Find(selInjury).Length() > 0,
	}

	paragraphs := doc.Find(selBidParagraphs)
	page.HasBid = paragraphs.Length() > 0

	if highest := doc.Find(selHighestBid); highest.Length() == 1 {
		page.Price = text(highest)
	} else if asking := containing(paragraphs, "Asking Price"); asking.Length() == 1 {
		page.Price = text(asking)
	}

	if deadline := containing(paragraphs, "Deadline"); deadline.Length() > 0 {
		page.Deadline = text(deadline.First())
	}

	wage := doc.Find(selTableRows).FilterFunction(func(_ int, row *goquery.Selection) bool {
		label := strings.TrimSuffix(strings.TrimSpace(row.Children().First().Text()), ":")

		return strings.EqualFold(label, "Wage") && row.Children().Length() > 1
	})
	if wage.Length() > 0 {
		page.Wage = text(wage.First().Children().Last())
	}

	return page, nil
}

// parseMedian reads the transfer-compare median; nil unless exactly one cell matches.
func parseMedian(html string) (*string, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	cells := doc.Find(selTableRows).FilterFunction(func(_ int, row *goquery.Selection) bool {
		return strings.TrimSpace(row.Find("th").First().Text()) == "Median"
	}).Find("th.transfer-compare-bid")

	if cells.Length() != 1 {
		return nil, nil //nolint:nilnil
	}

	return text(cells), nil
}

func containing(s *goquery.Selection, substr string) *goquery.Selection {
	substr = strings.ToLower(substr)

	return s.FilterFunction(func(_ int, el *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(el.Text()), substr)
	})
}

func text(s *goquery.Selection) *string {
	v := strings.Join(strings.Fields(s.Text()), " ")

	return &v
}
