package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// renderThumbnail downscales an image so its long edge is at most maxEdge
// pixels, preserving aspect ratio. PNG input stays PNG (to keep transparency),
// everything else is re-encoded as JPEG. Images already within bounds are
// re-encoded unchanged so the thumbnail is always a separate, predictable
// object.
func renderThumbnail(data []byte, maxEdge int) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxEdge || h > maxEdge {
		if w >= h {
			h = h * maxEdge / w
			w = maxEdge
		} else {
			w = w * maxEdge / h
			h = maxEdge
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, src); err != nil {
			return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", fmt.Errorf("failed to encode thumbnail: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
