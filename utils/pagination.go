package utils

const pageSizeDefault = 20
const pageSizeMax = 100

// GetPaginationParams normalizes the optional offset and limit of a
// listing request. Absent or negative values fall back to the defaults
// and the limit is capped so one request cannot page the whole table.
func GetPaginationParams(offset *int, limit *int) (int, int) {
	off := 0
	lim := pageSizeDefault

	if offset != nil && *offset >= 0 {
		off = *offset
	}

	if limit != nil && *limit > 0 {
		lim = min(*limit, pageSizeMax)
	}

	return off, lim
}
