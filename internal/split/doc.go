// Package split cuts screenshots taller than a threshold into horizontal
// bands.
//
// For an image of height H and threshold T the band count is
// n = floor(H/T) + 1 and every band is floor(H/n) rows tall. Images with
// H <= T are left as they are. The rows left over when n does not divide H
// go to the last band (RemainderLast) or are discarded (RemainderDrop).
// Bands are written losslessly as "<stem><suffix><index>.png" beside the
// original, which is removed once every band is on disk. Bands left by an
// earlier split of the same capture are deleted before a new split so they
// are never published alongside a newer capture.
package split
