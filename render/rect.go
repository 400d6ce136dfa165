package render

import "image"

func imageRect(x, y, size int) image.Rectangle {
	return image.Rect(x, y, x+size, y+size)
}
