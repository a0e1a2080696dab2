package scraper

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxStoredText caps the extracted page text before storage.
const maxStoredText = 5000

// emailPattern is the permissive address match harvested from page text.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ExtractEmails harvests addresses from text, deduplicated and sorted.
func ExtractEmails(text string) []string {
	seen := make(map[string]struct{})
	for _, match := range emailPattern.FindAllString(text, -1) {
		seen[match] = struct{}{}
	}

	emails := make([]string, 0, len(seen))
	for email := range seen {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}

// pageTitle returns the trimmed <title> text, or empty.
func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// pageText runs a dedicated content-extraction pass over the main content
// containers, falling back to the whole page's visible text when that pass
// yields nothing. The result is whitespace-collapsed and capped.
func pageText(doc *goquery.Document) string {
	var parts []string
	doc.Find("article, main, p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, " ")
	if text == "" {
		text = doc.Find("body").Text()
	}

	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > maxStoredText {
		text = string(runes[:maxStoredText])
	}
	return text
}
