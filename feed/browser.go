package feed

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher loads the feed URL in headless Chrome and returns the
// rendered document. It is meant for sheets published as web pages that only
// render their table client-side; the result is read with ParseHTMLTable.
type BrowserFetcher struct {
	chromeBin string
	timeout   time.Duration
	settle    time.Duration
}

// NewBrowserFetcher creates a fetcher. An empty chromeBin lets chromedp
// search the usual install locations.
func NewBrowserFetcher(chromeBin string, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{
		chromeBin: chromeBin,
		timeout:   timeout,
		settle:    2 * time.Second,
	}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := f.resolveBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	if f.timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, f.timeout)
		defer cancelTimeout()
	}

	var html string
	resp, err := chromedp.RunResponse(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Cache-Control": "no-cache, no-store",
			"Pragma":        "no-cache",
		}),
		chromedp.Navigate(url),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", &FetchError{URL: url, StatusCode: int(resp.Status)}
	}

	err = chromedp.Run(tabCtx,
		chromedp.Sleep(f.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return html, nil
}

// resolveBinary prefers the configured binary, then common names on PATH,
// then well-known install paths.
func (f *BrowserFetcher) resolveBinary() string {
	if f.chromeBin != "" {
		return f.chromeBin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

var _ Fetcher = (*BrowserFetcher)(nil)
