package geom

// Xywh (center x, center y, width, height) is the box layout used by YOLO
// label files
type Xywh [4]float64

// Xywh converts the normalized box to center x, center y, width, height
func (b NormBox) Xywh() Xywh {
	return Xywh{
		(b.XMin + b.XMax) / 2,
		(b.YMin + b.YMax) / 2,
		b.XMax - b.XMin,
		b.YMax - b.YMin,
	}
}

// NormBoxFromXywh creates a normalized box from center x, center y, width,
// height
func NormBoxFromXywh(c Xywh) NormBox {
	return NormBox{
		XMin: c[0] - c[2]/2,
		YMin: c[1] - c[3]/2,
		XMax: c[0] + c[2]/2,
		YMax: c[1] + c[3]/2,
	}
}
