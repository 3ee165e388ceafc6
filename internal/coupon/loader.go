package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// Loader fetches coupon definitions from several sources concurrently.
// Each source holds a JSON array of coupon inputs, optionally gzip-compressed.
type Loader struct {
	client *http.Client
	stats  []SourceStats
	mu     sync.RWMutex
}

// SourceStats summarizes one loaded source.
type SourceStats struct {
	Source  string `json:"source"`
	Loaded  int    `json:"loaded"`
	Skipped int    `json:"skipped"`
}

// sourceResult holds the result of loading a single source
type sourceResult struct {
	index   int
	coupons []models.Coupon
	skipped int
	err     error
}

// NewLoader creates a loader. A nil client gets a default with a one minute timeout.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &Loader{client: client}
}

// LoadFromURLs downloads and decodes every URL.
// Returns error if any source fails to load
func (l *Loader) LoadFromURLs(ctx context.Context, urls []string) ([]models.Coupon, error) {
	return l.load(ctx, urls, l.openURL)
}

// LoadFromFiles reads and decodes every file.
func (l *Loader) LoadFromFiles(ctx context.Context, paths []string) ([]models.Coupon, error) {
	return l.load(ctx, paths, openFile)
}

func (l *Loader) load(ctx context.Context, sources []string, open func(context.Context, string) (io.ReadCloser, error)) ([]models.Coupon, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}

	resultChan := make(chan sourceResult, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			coupons, skipped, err := readSource(ctx, source, open)
			resultChan <- sourceResult{index: index, coupons: coupons, skipped: skipped, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining source order
	results := make([]sourceResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load source %d (%s): %w", i+1, sources[i], result.err)
		}
	}

	// earlier sources win on duplicate codes
	seen := make(map[string]struct{})
	merged := make([]models.Coupon, 0)
	stats := make([]SourceStats, len(results))
	for i, result := range results {
		stats[i] = SourceStats{Source: sources[i], Skipped: result.skipped}
		for _, c := range result.coupons {
			if _, dup := seen[c.Code]; dup {
				stats[i].Skipped++
				continue
			}
			seen[c.Code] = struct{}{}
			merged = append(merged, c)
			stats[i].Loaded++
		}
	}

	l.mu.Lock()
	l.stats = append(l.stats, stats...)
	l.mu.Unlock()

	return merged, nil
}

func readSource(ctx context.Context, source string, open func(context.Context, string) (io.ReadCloser, error)) ([]models.Coupon, int, error) {
	rc, err := open(ctx, source)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	return decodeCoupons(rc)
}

func (l *Loader) openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func openFile(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// decodeCoupons reads a JSON array of coupon inputs, transparently
// decompressing gzip. Entries that fail to decode or validate are skipped.
func decodeCoupons(r io.Reader) ([]models.Coupon, int, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gzReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		src = gzReader
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(src).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("error decoding coupons: %w", err)
	}

	coupons := make([]models.Coupon, 0, len(raw))
	skipped := 0
	for _, entry := range raw {
		var in models.CouponInput
		if err := json.Unmarshal(entry, &in); err != nil {
			skipped++
			continue
		}
		c, err := New(in)
		if err != nil {
			skipped++
			continue
		}
		coupons = append(coupons, c)
	}

	return coupons, skipped, nil
}

// Stats returns per-source statistics accumulated over every successful load
func (l *Loader) Stats() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sources := make([]SourceStats, len(l.stats))
	copy(sources, l.stats)

	total := 0
	for _, s := range sources {
		total += s.Loaded
	}

	return map[string]interface{}{
		"total_sources": len(sources),
		"sources":       sources,
		"total_coupons": total,
	}
}
