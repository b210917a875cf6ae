package mathutil

import "math"

// Camera matrices for previews. Exchange files are Z-up; screen space is
// X right, Y up, Z toward the viewer.
var (
	// ZUp turns model Z-up into screen Y-up: Rx(-90°)
	ZUp = RotX(math.Pi / -2)

	// Isometric puts the camera on the model (1,-1,1) diagonal:
	// Rx(35.264°) @ Ry(-45°) @ ZUp
	Isometric = Mat3Mul(Mat3Mul(RotX(Deg2Rad(35.264389682754654)), RotY(Deg2Rad(-45))), ZUp)

	// Top looks straight down the model Z axis.
	Top = Mat3Identity()
)

// Views maps config names to camera matrices.
var Views = map[string]Mat3{
	"isometric": Isometric,
	"top":       Top,
	"front":     ZUp,
}
