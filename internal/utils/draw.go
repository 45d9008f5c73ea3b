package utils

import (
	"image"
	"image/color"
	"image/draw"
)

// FillRect paints every pixel of rect (clamped to dst bounds) with col.
func FillRect(dst *image.RGBA, rect image.Rectangle, col color.Color) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawRect draws an axis-aligned rectangle outline into dst. The outline
// grows inward so it never exceeds rect.
func DrawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	// Top and bottom edges
	for t := 0; t < thickness; t++ {
		yTop := rect.Min.Y + t
		yBot := rect.Max.Y - 1 - t
		if yTop > yBot {
			break
		}
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, yTop, col)
			dst.Set(x, yBot, col)
		}
	}
	// Left and right edges
	for t := 0; t < thickness; t++ {
		xLeft := rect.Min.X + t
		xRight := rect.Max.X - 1 - t
		if xLeft > xRight {
			break
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			dst.Set(xLeft, y, col)
			dst.Set(xRight, y, col)
		}
	}
}
