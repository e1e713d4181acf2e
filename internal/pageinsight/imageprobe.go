package pageinsight

import (
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Bahjat/page-report-tool/internal/model"
)

const (
	// DefaultProbeTimeout bounds each image preview fetch.
	DefaultProbeTimeout = 5 * time.Second

	maxProbedImages = 500
	maxImageBytes   = 10 << 20
)

// ImageProber fetches images for previews using a reusable HTTP client.
type ImageProber struct {
	client      *http.Client
	concurrency int
}

// ProberOptions configures the image prober.
type ProberOptions struct {
	Timeout              time.Duration
	Concurrency          int
	BlockPrivateNetworks bool
}

// NewImageProber returns an ImageProber whose worker pool size is the
// configured concurrency. Each fetch has its own timeout.
func NewImageProber(opts ProberOptions) *ImageProber {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return newImageProber(opts.Concurrency, opts.Timeout, newTransport(opts.BlockPrivateNetworks, opts.Concurrency))
}

func newImageProber(concurrency int, timeout time.Duration, transport http.RoundTripper) *ImageProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &ImageProber{
		concurrency: concurrency,
		client: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

// probeImage fetches one image and describes it. Failures are recorded in
// the preview, never returned.
func (p *ImageProber) probeImage(ctx context.Context, src string) *model.Preview {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return &model.Preview{Error: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return &model.Preview{Error: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	preview := &model.Preview{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if resp.ContentLength > 0 {
		preview.Bytes = resp.ContentLength
	}
	if resp.StatusCode >= 400 {
		preview.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return preview
	}

	// Formats without a registered decoder (svg, webp, avif) keep zero dimensions.
	if strings.HasPrefix(preview.ContentType, "image/svg") {
		return preview
	}
	if cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxImageBytes)); err == nil {
		preview.Width, preview.Height = cfg.Width, cfg.Height
	}
	return preview
}

// Probe fetches every image with a resolved source concurrently, using a
// pool of worker goroutines, and stores the outcome in each entry's
// Preview. Images without a source are skipped. Processes at most 500 images.
func (p *ImageProber) Probe(ctx context.Context, images []model.ImageEntry) {
	targets := make([]int, 0, len(images))
	for i := range images {
		if images[i].ResolvedSrc != "" {
			targets = append(targets, i)
		}
	}
	limit := min(len(targets), maxProbedImages)
	targets = targets[:limit]

	if limit == 0 {
		return
	}

	jobs := make(chan int, limit)
	numWorkers := min(limit, p.concurrency)

	// Each worker writes only to the entries it receives, so no locking is needed.
	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for i := range jobs {
				images[i].Preview = p.probeImage(ctx, images[i].ResolvedSrc)
			}
		})
	}

	for _, i := range targets {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}
