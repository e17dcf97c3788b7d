package noise

import "math"

// cellJitter is how far a feature point may wander from its cell center, as a
// fraction of the cell size.
const cellJitter = 0.9

// cellular evaluates Worley F1 noise: the distance from the sample to the
// nearest feature point, one point per unit cell. The distance is mapped from
// [0, 1] onto [-1, 1]; larger distances saturate at 1.
func cellular(seed int32, x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	cx, cy, cz := int32(fx), int32(fy), int32(fz)

	best := math.MaxFloat64
	for i := int32(-1); i <= 1; i++ {
		xp := (cx + i) * primeX
		for j := int32(-1); j <= 1; j++ {
			yp := (cy + j) * primeY
			for k := int32(-1); k <= 1; k++ {
				zp := (cz + k) * primeZ
				h := uint32(hash(seed, xp, yp, zp))

				// Three 8-bit jitter components from one hash.
				jx := (float64(h&0xff)/255 - 0.5) * cellJitter
				jy := (float64((h>>8)&0xff)/255 - 0.5) * cellJitter
				jz := (float64((h>>16)&0xff)/255 - 0.5) * cellJitter

				px := fx + float64(i) + 0.5 + jx - x
				py := fy + float64(j) + 0.5 + jy - y
				pz := fz + float64(k) + 0.5 + jz - z

				if d := px*px + py*py + pz*pz; d < best {
					best = d
				}
			}
		}
	}

	return math.Min(math.Sqrt(best), 1)*2 - 1
}
