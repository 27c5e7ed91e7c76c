// Package webp encodes and decodes WebP images through the native libwebp
// shared library.
//
// The package is a thin bridge: pixel data, compression parameters and
// diagnostics cross the managed/native boundary, while the VP8/VP8L codec
// work itself happens inside libwebp. The library is located and bound at
// first use; no cgo is involved.
//
// The package supports:
//   - Lossy, lossless and near-lossless encoding, each with a one-shot
//     default form and an advanced tunable form
//   - Decoding to *image.NRGBA
//   - Header-only feature probing (dimensions, alpha, animation, format)
//   - PSNR/SSIM/LSIM distortion measurement between two images
//   - Encoder diagnostics (coded size, per-channel PSNR, segment breakdown)
//
// Basic usage for decoding:
//
//	img, err := webp.Decode(reader)
//
// Basic usage for encoding:
//
//	err := webp.EncodeLossy(writer, img, 80)
package webp
