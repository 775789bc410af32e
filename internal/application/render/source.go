package render

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

const maxAssetBytes = 32 << 20

// ErrUnsupportedRef is returned for a caller-supplied ref that names a URL or
// a server path.
var ErrUnsupportedRef = errors.New("asset ref must be a data url or a stored file id")

// Source resolves refs in order of their shape: data: URLs are decoded inline,
// http(s) URLs are downloaded, existing local paths are read, and anything else
// is treated as a storage object id.
type Source struct {
	Storage repository.FileStorage
	Client  *http.Client
}

// Fetch resolves an operator-configured ref such as the font, logo or seal.
func (s *Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case isURL(ref):
		return s.download(ctx, ref)
	}
	if info, err := os.Stat(ref); err == nil {
		return readLocal(ctx, ref, info)
	}
	return s.stored(ctx, ref)
}

// FetchUserRef resolves a ref that came from a request, such as a customer
// signature. Only data: URLs and storage object ids are accepted.
func (s *Source) FetchUserRef(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}
	if !IsStoredRef(ref) {
		return nil, ErrUnsupportedRef
	}
	return s.stored(ctx, ref)
}

// IsStoredRef reports whether ref can only be a storage object id: no scheme,
// no absolute path and no parent segments.
func IsStoredRef(ref string) bool {
	if ref == "" || strings.Contains(ref, ":") || strings.ContainsRune(ref, '\\') {
		return false
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "~") {
		return false
	}
	for _, seg := range strings.Split(ref, "/") {
		if seg == ".." || seg == "." {
			return false
		}
	}
	return true
}

func (s *Source) stored(ctx context.Context, ref string) ([]byte, error) {
	if s.Storage == nil {
		return nil, fmt.Errorf("asset %q not found", ref)
	}
	return s.Storage.Fetch(ctx, ref)
}

func (s *Source) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}

// readLocal reads a regular file of at most maxAssetBytes. Devices, pipes and
// sockets are refused before they are opened since opening them can block.
func readLocal(ctx context.Context, path string, info os.FileInfo) ([]byte, error) {
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("asset %q is not a regular file", path)
	}
	if info.Size() > maxAssetBytes {
		return nil, fmt.Errorf("asset %q exceeds %d bytes", path, maxAssetBytes)
	}

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		f, err := os.Open(path)
		if err != nil {
			ch <- result{err: err}
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxAssetBytes))
		ch <- result{data: data, err: err}
	}()
	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func decodeDataURL(ref string) ([]byte, error) {
	_, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	header := ref[:len(ref)-len(payload)-1]
	if strings.HasSuffix(header, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	return []byte(payload), nil
}
