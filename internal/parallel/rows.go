package parallel

// MinBandRows is the smallest band Rows hands to a worker.
const MinBandRows = 16

// Rows splits [0, height) into contiguous bands and calls fn once per band.
// With a nil pool, or when the image is too short to split, fn runs once on
// the calling goroutine. Bands never overlap, so fn may write rows of a
// shared buffer without locking.
func Rows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if p == nil || p.Workers() < 2 || height < 2*MinBandRows {
		fn(0, height)
		return
	}

	bands := min(p.Workers(), height/MinBandRows)
	size := (height + bands - 1) / bands

	work := make([]func(), 0, bands)
	for y0 := 0; y0 < height; y0 += size {
		y1 := min(y0+size, height)
		work = append(work, func() { fn(y0, y1) })
	}
	p.ExecuteAll(work)
}
