package layout

// DefaultPhotosPerPage is the number of photos on one appendix page.
const DefaultPhotosPerPage = 2

// Photo is an image of a site record with its caption.
type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// PaginatePhotos chunks photos perPage at a time, one page per chunk. Each
// photo block gets an equal share of the page height.
func PaginatePhotos(photos []Photo, perPage int, g Geometry) []PageDescriptor {
	if perPage <= 0 {
		perPage = DefaultPhotosPerPage
	}
	var pages []PageDescriptor
	for start := 0; start < len(photos); start += perPage {
		end := min(start+perPage, len(photos))
		chrome := ChromeFull
		if len(pages) > 0 {
			chrome = ChromeContinuation
		}
		height := g.ContentHeight(chrome) / float64(perPage)
		page := PageDescriptor{Index: len(pages), Chrome: chrome}
		for i := start; i < end; i++ {
			photo := photos[i]
			page.Blocks = append(page.Blocks, Block{
				Kind:     BlockPhoto,
				Height:   height,
				Category: -1,
				Item:     i,
				Photo:    &photo,
			})
		}
		if g.HasStamp() {
			stamp := g.Stamp
			page.Stamp = &stamp
		}
		pages = append(pages, page)
	}
	for i := range pages {
		pages[i].Total = len(pages)
	}
	return pages
}
