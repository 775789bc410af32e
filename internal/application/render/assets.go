package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrFontUnavailable aborts a PDF export. Without the CJK font every
	// Chinese glyph would render blank.
	ErrFontUnavailable = errors.New("font failed to load, try clearing the cache and exporting again")
	ErrAssetTimeout    = errors.New("asset fetch timed out")
)

const maxImagePixels = 1200

// AssetSource resolves an asset reference to its bytes. FetchUserRef is used
// for refs taken from a request and must not reach local files or URLs.
type AssetSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	FetchUserRef(ctx context.Context, ref string) ([]byte, error)
}

// AssetRefs names the assets of one export. Empty refs are skipped.
type AssetRefs struct {
	Font       string
	Logo       string
	Seal       string
	Signature  string
	SigningURL string
}

// Assets are the loaded, normalized assets. Any image may be nil.
type Assets struct {
	Font      []byte
	Logo      *Image
	Seal      *Image
	Signature *Image
	QRCode    *Image
}

// Missing names the assets that refs asked for but a did not receive.
func (a *Assets) Missing(refs AssetRefs) []string {
	var out []string
	for _, c := range []struct {
		name   string
		wanted bool
		loaded bool
	}{
		{"logo", refs.Logo != "", a.Logo != nil},
		{"seal", refs.Seal != "", a.Seal != nil},
		{"signature", refs.Signature != "", a.Signature != nil},
		{"qrcode", refs.SigningURL != "", a.QRCode != nil},
	} {
		if c.wanted && !c.loaded {
			out = append(out, c.name)
		}
	}
	return out
}

// AssetLoader fetches assets under a deadline.
type AssetLoader struct {
	source  AssetSource
	timeout time.Duration
	logger  *slog.Logger
}

func NewAssetLoader(source AssetSource, timeout time.Duration, logger *slog.Logger) *AssetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetLoader{source: source, timeout: timeout, logger: logger}
}

// Load fetches every referenced asset concurrently. Only the font is fatal,
// and only when requireFont is set; image failures are logged and the image
// is left out. Load returns once the timeout passes even if a source ignores
// its context.
func (l *AssetLoader) Load(ctx context.Context, refs AssetRefs, requireFont bool) (*Assets, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	var (
		mu       sync.Mutex
		closed   bool
		assets   Assets
		fontErr  error
		fontDone bool
	)
	set := func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			fn()
		}
	}
	g, gctx := errgroup.WithContext(ctx)

	if requireFont {
		g.Go(func() error {
			data, err := l.fetchFont(gctx, refs.Font)
			set(func() { assets.Font, fontErr, fontDone = data, err, true })
			return nil
		})
	}
	images := []struct {
		name string
		ref  string
		user bool
		dst  **Image
	}{
		{"logo", refs.Logo, false, &assets.Logo},
		{"seal", refs.Seal, false, &assets.Seal},
		{"signature", refs.Signature, true, &assets.Signature},
	}
	for _, im := range images {
		im := im
		if im.ref == "" {
			continue
		}
		g.Go(func() error {
			img := l.fetchImage(gctx, im.name, im.ref, im.user)
			set(func() { *im.dst = img })
			return nil
		})
	}
	if refs.SigningURL != "" {
		g.Go(func() error {
			qr, err := SigningQRCode(refs.SigningURL)
			if err != nil {
				l.logger.Warn("qr code skipped", "url", refs.SigningURL, "error", err)
				return nil
			}
			set(func() { assets.QRCode = qr })
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		l.logger.Warn("asset loading cut off", "error", ctx.Err())
	}

	mu.Lock()
	closed = true
	out := assets
	if requireFont && !fontDone {
		fontErr = fmt.Errorf("%w: %w", ErrFontUnavailable, ErrAssetTimeout)
	}
	mu.Unlock()

	if fontErr != nil {
		return nil, fontErr
	}
	return &out, nil
}

func (l *AssetLoader) fetchFont(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: no font configured", ErrFontUnavailable)
	}
	data, err := l.source.Fetch(ctx, ref)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrFontUnavailable, ErrAssetTimeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty font file", ErrFontUnavailable)
	}
	return data, nil
}

func (l *AssetLoader) fetchImage(ctx context.Context, name, ref string, user bool) *Image {
	fetch := l.source.Fetch
	if user {
		fetch = l.source.FetchUserRef
	}
	data, err := fetch(ctx, ref)
	if err != nil {
		l.logger.Warn("asset skipped", "asset", name, "ref", ref, "error", err)
		return nil
	}
	img, err := NormalizeImage(name, data, maxImagePixels)
	if err != nil {
		l.logger.Warn("asset skipped", "asset", name, "ref", ref, "error", err)
		return nil
	}
	return img
}
