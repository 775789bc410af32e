package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

func createTestQuotation() *entity.Quotation {
	q := &entity.Quotation{
		ID:              "q-1",
		QuotationNumber: "PRJ-01",
		Version:         1,
		Status:          enum.QuotationStatusSent,
		Header:          entity.Header{To: "ACME", ProjectName: "Office", QuotationDate: "2025-06-01"},
		Options: []entity.QuotationOption{{
			ID:   "o1",
			Name: "方案A",
			Categories: []entity.ItemCategory{{
				ID: "c1", Code: "壹", Name: "拆除工程",
				Items: []entity.QuotationItem{
					{ID: "i1", Name: "Demolition <wall>", Unit: "式", Quantity: 1, UnitPrice: 5000},
					{ID: "i2", Name: "Partition removal", Unit: "M2", Quantity: 3, UnitPrice: 12000},
				},
			}},
			Summary: entity.NewSummary(),
		}},
		Terms: &entity.Terms{PaymentTerms: "30% deposit"},
	}
	return pricing.Recompute(q)
}

func createTestInput(t *testing.T) Input {
	t.Helper()
	q := createTestQuotation()
	pages, err := layout.Paginate(q, layout.A4(), nil)
	require.NoError(t, err)
	return Input{
		Quotation: q,
		Pages:     pages,
		Geometry:  layout.A4(),
		Company:   Company{NameZH: "測試工程有限公司", NameEN: "Test Engineering Co."},
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.Error(t, err)
	assert.Contains(t, FormatHTML.ContentType(), "text/html")
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "47,355", Money(47355))
	assert.Equal(t, "1,234.50", Money(1234.5))
	assert.Equal(t, "-355", Money(-355))
	assert.Equal(t, "NT$ 0", Total(0))
	assert.Equal(t, "2.5", Quantity(2.5))
}

func TestFilename(t *testing.T) {
	q := createTestQuotation()
	assert.Equal(t, "Quote_PRJ-01_方案A.pdf", Filename(q, FormatPDF))

	q.Options[0].Name = "A/B: test"
	assert.Equal(t, "Quote_PRJ-01_A_B_test.xlsx", Filename(q, FormatXLSX))
	assert.Equal(t, Filename(q, FormatXLSX), Filename(q, FormatXLSX))
}

func TestHTMLRenderer(t *testing.T) {
	in := createTestInput(t)
	in.Assets = &Assets{Seal: &Image{Name: "seal", Data: testPNG(t, 4, 4), Type: "PNG"}}

	out, err := NewHTMLRenderer().Render(in)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "@page { size: A4; margin: 0 }")
	assert.Contains(t, html, "break-inside: avoid")
	assert.Contains(t, html, "Page 1 of 1")
	assert.Contains(t, html, "已發送 Sent")
	assert.Contains(t, html, "Demolition &lt;wall&gt;")
	assert.Contains(t, html, "NT$ 47,355")
	assert.Contains(t, html, `class="stamp" src="data:image/png;base64,`)
	assert.Equal(t, len(in.Pages), strings.Count(html, `<section class="page"`))
}

func TestHTMLRenderer_SealSizedInBankBlock(t *testing.T) {
	q := createTestQuotation()
	q.Terms.BankAccount = &entity.BankAccount{BankName: "Test Bank", AccountName: "Test Co", AccountNumber: "000-123"}
	pages, err := layout.Paginate(q, layout.A4(), nil)
	require.NoError(t, err)
	in := Input{Quotation: q, Pages: pages, Geometry: layout.A4(),
		Assets: &Assets{Seal: &Image{Name: "seal", Data: testPNG(t, 4, 4), Type: "PNG"}}}

	out, err := NewHTMLRenderer().Render(in)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, ".bank-account img { float: right; width: 28mm; height: 28mm }")
	start := strings.Index(html, `class="block bank-account`)
	require.NotEqual(t, -1, start)
	block := html[start:]
	if end := strings.Index(block[1:], `class="block `); end >= 0 {
		block = block[:end+1]
	}
	assert.Contains(t, block, `<img src="data:image/png;base64,`)
	assert.Contains(t, block, "Test Bank")
}

func TestPhotoURLAllowed(t *testing.T) {
	for _, u := range []string{"a.jpg", "/files/a.jpg", "https://cdn.example.com/a.jpg", "data:image/jpeg;base64,/9j/"} {
		assert.True(t, PhotoURLAllowed(u), u)
	}
	for _, u := range []string{"", "javascript:alert(1)", "file:///etc/passwd", "data:text/html,<b>", "data:image/png,raw", "ftp://x/a.jpg"} {
		assert.False(t, PhotoURLAllowed(u), u)
	}
}

func TestHTMLRenderer_InlinePhoto(t *testing.T) {
	q := createTestQuotation()
	inline := "data:image/png;base64,iVBORw0KGgo="
	pages := layout.PaginatePhotos([]layout.Photo{{URL: inline, Caption: "before"}, {URL: "javascript:alert(1)"}}, 2, layout.A4())
	out, err := NewHTMLRenderer().Render(Input{Quotation: q, Pages: pages, Geometry: layout.A4()})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<img src="`+inline+`" alt="before">`)
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "ZgotmplZ")
	assert.Equal(t, 1, strings.Count(html, `alt="before"`))
}

func TestHTMLRenderer_NoSelectedOption(t *testing.T) {
	in := createTestInput(t)
	in.Quotation.SelectedOptionIndex = 3
	_, err := NewHTMLRenderer().Render(in)
	assert.ErrorIs(t, err, layout.ErrNoSelectedOption)
}

func TestPDFRenderer_RequiresFont(t *testing.T) {
	_, err := NewPDFRenderer(nil).Render(createTestInput(t))
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestPDFRenderer_DrawsEveryPage(t *testing.T) {
	q := createTestQuotation()
	items := q.Options[0].Categories[0].Items
	for i := 0; i < 60; i++ {
		items = append(items, entity.QuotationItem{ID: fmt.Sprintf("x%d", i), Name: "Line item", Unit: "M2", Quantity: 2, UnitPrice: 150})
	}
	q.Options[0].Categories[0].Items = items
	q = pricing.Recompute(q)
	pages, err := layout.Paginate(q, layout.A4(), nil)
	require.NoError(t, err)
	require.Greater(t, len(pages), 1)

	lines := make([]string, 120)
	for i := range lines {
		lines[i] = fmt.Sprintf("Clause %d", i+1)
	}
	pages = append(pages, layout.PageDescriptor{
		Chrome: layout.ChromeContinuation,
		Blocks: []layout.Block{{Kind: layout.BlockTerms, Height: 600, Category: -1, Item: -1, Lines: lines, Overflow: true}},
	})
	for i := range pages {
		pages[i].Index, pages[i].Total = i, len(pages)
	}

	out, err := NewPDFRenderer(nil).Render(Input{
		Quotation: q,
		Pages:     pages,
		Geometry:  layout.A4(),
		Company:   Company{NameZH: "Test Engineering", NameEN: "Test Engineering Co."},
		Assets: &Assets{
			Font: goregular.TTF,
			Seal: &Image{Name: "seal", Data: testPNG(t, 4, 4), Type: "PNG"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	n, err := api.PageCount(bytes.NewReader(out), model.NewDefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, len(pages), n)
}

func TestXLSXRenderer(t *testing.T) {
	out, err := NewXLSXRenderer().Render(createTestInput(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	var found bool
	for _, row := range rows {
		if len(row) >= 6 && row[0] == "2" {
			found = true
			assert.Equal(t, "Partition removal", row[1])
			assert.Equal(t, "36,000", row[5])
		}
	}
	assert.True(t, found)
}

func TestNormalizeImage(t *testing.T) {
	small := testPNG(t, 10, 5)
	img, err := NormalizeImage("logo", small, 100)
	require.NoError(t, err)
	assert.Equal(t, small, img.Data)
	assert.Equal(t, "PNG", img.Type)

	img, err = NormalizeImage("logo", testPNG(t, 400, 100), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Width)
	assert.Equal(t, 50, img.Height)
	cfg, err := png.DecodeConfig(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)

	_, err = NormalizeImage("logo", []byte("not an image"), 100)
	assert.Error(t, err)
}

func TestSigningQRCode(t *testing.T) {
	img, err := SigningQRCode("https://example.com/sign/q-1")
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	assert.Equal(t, "https://x/sign/q-1", SigningURL("https://x/sign", "q-1"))
	assert.Empty(t, SigningURL("", "q-1"))
}

type fakeSource struct {
	data  map[string][]byte
	block bool
	// stuck, when set, blocks until closed and ignores the context.
	stuck chan struct{}
}

func (s *fakeSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if s.stuck != nil {
		<-s.stuck
		return nil, errors.New("released")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d, ok := s.data[ref]; ok {
		return d, nil
	}
	return nil, errors.New("not found")
}

func (s *fakeSource) FetchUserRef(ctx context.Context, ref string) ([]byte, error) {
	return s.Fetch(ctx, ref)
}

type mapStorage map[string][]byte

func (m mapStorage) Upload(context.Context, string, string, []byte) (repository.StoredFile, error) {
	return repository.StoredFile{}, errors.New("read only")
}

func (m mapStorage) Fetch(_ context.Context, ref string) ([]byte, error) {
	if d, ok := m[ref]; ok {
		return d, nil
	}
	return nil, errors.New("no such object")
}

func TestAssetLoader_OptionalImagesDegrade(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{
		"font": []byte("ttf"),
		"logo": testPNG(t, 8, 8),
		"seal": []byte("broken"),
	}}
	assets, err := NewAssetLoader(src, time.Second, nil).Load(context.Background(), AssetRefs{
		Font: "font", Logo: "logo", Seal: "seal", Signature: "missing", SigningURL: "https://x/q-1",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("ttf"), assets.Font)
	assert.NotNil(t, assets.Logo)
	assert.Nil(t, assets.Seal)
	assert.Nil(t, assets.Signature)
	assert.NotNil(t, assets.QRCode)
}

func TestAssetLoader_FontFailureIsFatal(t *testing.T) {
	loader := NewAssetLoader(&fakeSource{}, time.Second, nil)

	_, err := loader.Load(context.Background(), AssetRefs{Font: "font"}, true)
	assert.ErrorIs(t, err, ErrFontUnavailable)

	_, err = loader.Load(context.Background(), AssetRefs{}, true)
	assert.ErrorIs(t, err, ErrFontUnavailable)

	assets, err := loader.Load(context.Background(), AssetRefs{Font: "font"}, false)
	require.NoError(t, err)
	assert.Nil(t, assets.Font)
}

func TestAssetLoader_Timeout(t *testing.T) {
	loader := NewAssetLoader(&fakeSource{block: true}, 20*time.Millisecond, nil)
	_, err := loader.Load(context.Background(), AssetRefs{Font: "font"}, true)
	assert.ErrorIs(t, err, ErrAssetTimeout)
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestAssetLoader_ReturnsAtDeadlineWhenSourceHangs(t *testing.T) {
	stuck := make(chan struct{})
	t.Cleanup(func() { close(stuck) })
	loader := NewAssetLoader(&fakeSource{stuck: stuck}, 20*time.Millisecond, nil)

	start := time.Now()
	_, err := loader.Load(context.Background(), AssetRefs{Font: "font", Signature: "sig"}, true)
	assert.ErrorIs(t, err, ErrAssetTimeout)
	assert.ErrorIs(t, err, ErrFontUnavailable)

	assets, err := loader.Load(context.Background(), AssetRefs{Signature: "sig"}, false)
	require.NoError(t, err)
	assert.Nil(t, assets.Signature)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAssetLoader_SignatureIsNotReadFromLocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seal.png")
	require.NoError(t, os.WriteFile(path, testPNG(t, 4, 4), 0o600))
	loader := NewAssetLoader(&Source{}, time.Second, nil)

	assets, err := loader.Load(context.Background(), AssetRefs{Seal: path, Signature: path}, false)
	require.NoError(t, err)
	assert.NotNil(t, assets.Seal)
	assert.Nil(t, assets.Signature)
}

func TestSource_FetchUserRef(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))
	s := &Source{Storage: mapStorage{"assets/sig.png": []byte("stored")}}
	ctx := context.Background()

	for _, ref := range []string{path, "https://internal.example/sig.png", "file:///etc/hosts", "../etc/hosts", "a/../../b", ""} {
		_, err := s.FetchUserRef(ctx, ref)
		assert.ErrorIs(t, err, ErrUnsupportedRef, ref)
	}

	data, err := s.FetchUserRef(ctx, "assets/sig.png")
	require.NoError(t, err)
	assert.Equal(t, "stored", string(data))

	data, err = s.FetchUserRef(ctx, "data:text/plain;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = s.Fetch(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestSource_RefusesNonRegularFiles(t *testing.T) {
	_, err := (&Source{}).Fetch(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "not a regular file")
}

func TestSource_DataURL(t *testing.T) {
	s := &Source{}
	data, err := s.Fetch(context.Background(), "data:text/plain;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = s.Fetch(context.Background(), "object-123")
	assert.Error(t, err)
}
