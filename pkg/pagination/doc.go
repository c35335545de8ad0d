// Package pagination provides plain offset pagination over in-memory slices.
//
// Pages are 1-based. Page p of size s covers the half-open range
// [(p-1)*s, p*s) of the source, clipped to its length:
//
//	page := pagination.Paginate(products, pagination.Request{Page: 2, PageSize: 12})
//	// page.Items      - items 12..23
//	// page.TotalPages - ceil(len(products) / 12)
//
// Requests with a non-positive page or page size fall back to the defaults
// (page 1, 12 items per page).
package pagination
