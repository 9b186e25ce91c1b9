// Package rle run-length encodes grayscale rasters into a compact binary frame
// and decodes them back losslessly.
//
// The raster is flattened in row-major order and split into maximal runs of a
// single pixel value. Runs cross row boundaries freely; a 4x4 image that is
// entirely black is a single run of 16. Each run is stored as a (value, count)
// pair after a header giving the raster's dimensions:
//
//	offset 0, length 4: height, big-endian unsigned
//	offset 4, length 4: width, big-endian unsigned
//	offset 8 onward:    repeated entries of
//	                      length 2: pixel value, big-endian unsigned (0-255)
//	                      length 4: run count, big-endian unsigned
//
// There is no magic number, version field, or checksum, and the run list has no
// length prefix; it ends where the stream ends. A frame holding N runs is thus
// always 8 + 6N bytes. The value field is two bytes wide even though pixels
// only need one, to stay compatible with existing files.
//
// For an image that is mostly flat background this is very effective: a
// 100x100 image of a single color takes 14 bytes instead of 10,000. Noisy
// images (photographs) do much worse, since nearly every run is one pixel long
// and costs six bytes. Gzipping the frame (see [CompressFrame]) recovers a lot
// of that, because neighboring entries tend to share most of their bytes.
package rle
